package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	reportapp "github.com/batchledger/backend/internal/application/report"
	"github.com/batchledger/backend/internal/infrastructure/cache"
	"github.com/batchledger/backend/internal/infrastructure/config"
	"github.com/batchledger/backend/internal/infrastructure/logger"
	"github.com/batchledger/backend/internal/infrastructure/migration"
	"github.com/batchledger/backend/internal/infrastructure/persistence"
	"github.com/batchledger/backend/internal/infrastructure/scheduler"
	"github.com/batchledger/backend/internal/infrastructure/telemetry"
	"github.com/batchledger/backend/internal/interfaces/http/handler"
	"github.com/batchledger/backend/internal/interfaces/http/middleware"
	"github.com/batchledger/backend/internal/interfaces/http/router"
	"github.com/batchledger/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry providers are no-ops unless telemetry is enabled
	otelProviders, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log := otelProviders.TeeLogger(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting batch ledger reporting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// SQL migrations target postgres; sqlite schemas come from the models
	switch {
	case cfg.Database.Driver == config.DriverSQLite:
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	case cfg.Database.MigrateOnStart:
		if err := migration.ApplyAll(cfg.Database.DSN(), migrations.FS, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:   dbSystem,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	reportMetrics, err := telemetry.NewReportMetrics(otelProviders.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to create report metrics", zap.Error(err))
	}

	serviceOpts := []reportapp.Option{
		reportapp.WithLogger(log),
		reportapp.WithRecorder(reportMetrics),
	}
	if cfg.Report.CacheEnabled {
		reportCache, err := cache.NewReportCache(cfg.Report, cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to create report cache", zap.Error(err))
		}
		defer func() {
			if err := reportCache.Close(); err != nil {
				log.Error("Error closing report cache", zap.Error(err))
			}
		}()
		serviceOpts = append(serviceOpts, reportapp.WithCache(reportCache, cfg.Report.CacheTTL))
		log.Info("Report cache enabled", zap.Duration("ttl", cfg.Report.CacheTTL))
	}

	snapshots := persistence.NewGormReportSnapshotRepository(db.DB)
	reportService := reportapp.NewReportService(snapshots, serviceOpts...)

	// Warming only pays off when results land in a cache
	var warmer *scheduler.Scheduler
	if cfg.Report.CacheEnabled && cfg.Report.WarmInterval > 0 {
		warmCfg := scheduler.DefaultConfig()
		warmCfg.Interval = cfg.Report.WarmInterval
		warmCfg.MaxConcurrentJobs = cfg.Report.WarmWorkers
		warmer = scheduler.NewScheduler(warmCfg, scheduler.NewWarmExecutor(reportService), log.Named("report-warmer"))
		if err := warmer.Start(context.Background()); err != nil {
			log.Fatal("Failed to start report warmer", zap.Error(err))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - otelgin span tagged with the request ID
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics, Security, CORS
	// 6. RateLimit (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
	})...)
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddlewareWithConfig(log, logger.AccessLogConfig{QuietPaths: []string{"/health"}}))

	httpMetrics, err := middleware.HTTPMetrics(otelProviders.Meter("http.server"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	reportHandler := handler.NewReportHandler(reportService)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.SystemRoutes(systemHandler)).
		Register(router.ReportingRoutes(reportHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if warmer != nil {
		if err := warmer.Stop(ctx); err != nil {
			log.Error("Report warmer shutdown failed", zap.Error(err))
		}
	}

	// Flush telemetry after the last request has been served
	if err := otelProviders.Shutdown(ctx); err != nil {
		baseLog.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
