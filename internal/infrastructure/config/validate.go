package config

import (
	"errors"
	"fmt"
	"slices"
)

// validate reports every problem at once
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.Driver == DriverPostgres || db.Driver == DriverSQLite,
		"database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, db.Driver)
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	r := c.Report
	check(r.CacheBackend == CacheBackendRedis || r.CacheBackend == CacheBackendMemory,
		"report.cache_backend must be %q or %q, got %q", CacheBackendRedis, CacheBackendMemory, r.CacheBackend)
	check(r.CacheTTL >= 0, "report.cache_ttl cannot be negative")
	check(r.WarmInterval >= 0, "report.warm_interval cannot be negative")
	check(r.WarmInterval == 0 || r.WarmWorkers > 0, "report.warm_workers must be positive when warming is enabled")

	check(!c.HTTP.RateLimitEnabled || c.HTTP.RateLimitRequests > 0,
		"http.rate_limit_requests must be positive when rate limiting is enabled")

	t := c.Telemetry
	check(t.SamplingRatio >= 0.0 && t.SamplingRatio <= 1.0,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", t.SamplingRatio)

	if c.IsProduction() {
		if db.Driver == DriverPostgres {
			check(db.Password != "", "database.password is required in production")
			check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		}
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"),
			"http.cors_allow_origins cannot be '*' in production (use specific origins)")
		check(!t.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	return errors.Join(errs...)
}
