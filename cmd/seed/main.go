// Command seed writes a demo ledger into the configured database.
package main

import (
	"context"
	"time"

	"github.com/batchledger/backend/internal/infrastructure/config"
	"github.com/batchledger/backend/internal/infrastructure/logger"
	"github.com/batchledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "batchledger-seed",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

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

	if cfg.Database.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary, err := seedLedger(ctx, persistence.NewGormLedgerWriter(db.DB), time.Now().UTC())
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Demo ledger seeded",
		zap.Int("product_types", summary.ProductTypes),
		zap.Int("customers", summary.Customers),
		zap.Int("batches", summary.Batches),
		zap.Int("orders", summary.Orders),
		zap.Int("payments", summary.Payments),
	)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
