// Package database opens and inspects the PostgreSQL connection.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/database/config"
	"github.com/festy23/company_insights/internal/database/pool"
	"github.com/festy23/company_insights/pkg/retry"
)

// Open connects to PostgreSQL, retrying transient failures per cfg.Retry,
// and applies cfg.Pool to the resulting connection.
func Open(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	dsn := config.BuildDSN(cfg)
	policy := cfg.Retry
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("Database connection attempt failed",
			"attempt", attempt,
			"retry_in", delay,
			"host", cfg.Host,
			"error", config.SanitizeError(err, cfg),
		)
	}

	db, err := retry.DoWithResult(ctx, policy, func() (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		// gorm.Open does not always dial; ping so retries cover a cold server.
		if err := HealthCheck(ctx, db); err != nil {
			_ = Close(db)
			return nil, err
		}
		return db, nil
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	if err := pool.SetupConnectionPool(db, cfg.Pool); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	logger.Infow("Database connected", "host", cfg.Host, "database", cfg.DBName)
	return db, nil
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the connection behind db. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Stats returns connection pool statistics.
func Stats(db *gorm.DB) (sql.DBStats, error) {
	if db == nil {
		return sql.DBStats{}, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Stats(), nil
}
