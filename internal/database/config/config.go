// Package config provides database configuration management.
package config

import (
	"fmt"
	"strings"

	appconfig "github.com/festy23/company_insights/internal/config"
	"github.com/festy23/company_insights/internal/database/pool"
	"github.com/festy23/company_insights/pkg/retry"
)

// Config holds database connection configuration.
type Config struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string

	// Pool configures the connection pool applied after connecting.
	Pool pool.Config
	// Retry configures connection attempts at startup.
	Retry retry.Config
}

// BuildDSN constructs PostgreSQL DSN string from configuration.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Host:     appconfig.GetEnv("DB_HOST", "localhost"),
		User:     appconfig.GetEnv("DB_USER", "postgres"),
		Password: appconfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   appconfig.GetEnv("DB_NAME", "company_insights"),
		Port:     appconfig.GetEnv("DB_PORT", "5432"),
		SSLMode:  appconfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone: appconfig.GetEnv("DB_TIMEZONE", "UTC"),
		Pool:     pool.LoadConfigFromEnv(),
		Retry:    LoadRetryConfigFromEnv(),
	}
}

// LoadRetryConfigFromEnv loads connection retry settings from DB_RETRY_* variables.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()
	cfg.MaxAttempts = appconfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = appconfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = appconfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Multiplier = appconfig.GetEnvFloat("DB_RETRY_MULTIPLIER", cfg.Multiplier)
	return cfg
}

// Validate checks that the connection can be attempted.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("DB_RETRY_MAX_ATTEMPTS must be greater than 0")
	}
	if err := c.Pool.Validate(); err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	return nil
}

// SanitizeError removes the password from connection error messages.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if cfg.Password != "" {
		msg = strings.ReplaceAll(msg, cfg.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", msg)
}
