package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/batchledger/backend/internal/infrastructure/config"
)

// NewReportCache builds the configured cache backend. When Redis is
// unreachable it falls back to the in-memory cache and logs a warning.
func NewReportCache(reportCfg config.ReportConfig, redisCfg config.RedisConfig, logger *zap.Logger) (ReportCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch reportCfg.CacheBackend {
	case config.CacheBackendMemory:
		logger.Info("Using in-memory report cache")
		return NewInMemoryReportCache(), nil
	case config.CacheBackendRedis, "":
		c, err := NewRedisReportCache(redisCfg)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory report cache",
				zap.String("addr", redisCfg.Addr()),
				zap.Error(err),
			)
			return NewInMemoryReportCache(), nil
		}
		logger.Info("Using Redis report cache", zap.String("addr", redisCfg.Addr()))
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported report cache backend %q", reportCfg.CacheBackend)
	}
}
