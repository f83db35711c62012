package config

import "fmt"

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Auth holds token and rate limit configuration.
	Auth AuthConfig
	// Enrichment holds research provider configuration.
	Enrichment EnrichmentConfig
	// Pipeline holds background worker configuration.
	Pipeline PipelineConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
	// MigrateOnStart applies pending schema migrations before serving.
	MigrateOnStart bool
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:     LoadServerConfigFromEnv(),
		Logger:     LoadLoggerConfigFromEnv(),
		Auth:       LoadAuthConfigFromEnv(),
		Enrichment: LoadEnrichmentConfigFromEnv(),
		Pipeline:   LoadPipelineConfigFromEnv(),
		GinMode:    GetEnv("GIN_MODE", "release"),

		MigrateOnStart: GetEnvBool("MIGRATE_ON_START", true),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := c.Enrichment.Validate(); err != nil {
		return fmt.Errorf("enrichment config validation failed: %w", err)
	}

	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline config validation failed: %w", err)
	}

	// A request must not be swept while its task can still be queued or running.
	if limit := c.Pipeline.MaxTaskLatency(c.Enrichment.Timeout); c.Pipeline.StaleAfter <= limit {
		return fmt.Errorf("PIPELINE_STALE_AFTER (%s) must exceed %s: queue drain plus ENRICHMENT_TIMEOUT (%s)",
			c.Pipeline.StaleAfter, limit, c.Enrichment.Timeout)
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
