package config

import (
	"fmt"
	"time"
)

// PipelineConfig holds background worker configuration.
type PipelineConfig struct {
	// Workers is the number of concurrent background tasks.
	Workers int
	// QueueSize is how many tasks may wait for a worker before dispatch is refused.
	QueueSize int
	// StaleAfter is how long a request may stay in processing before the sweeper fails it.
	StaleAfter time.Duration
	// SweepInterval is how often the sweeper runs. Zero disables it.
	SweepInterval time.Duration
}

// LoadPipelineConfigFromEnv loads pipeline configuration from environment variables.
func LoadPipelineConfigFromEnv() PipelineConfig {
	return PipelineConfig{
		Workers:       GetEnvInt("PIPELINE_WORKERS", 4),
		QueueSize:     GetEnvInt("PIPELINE_QUEUE_SIZE", 64),
		StaleAfter:    GetEnvDuration("PIPELINE_STALE_AFTER", 30*time.Minute),
		SweepInterval: GetEnvDuration("PIPELINE_SWEEP_INTERVAL", time.Minute),
	}
}

// Validate validates pipeline configuration.
func (c PipelineConfig) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("Workers must be greater than 0")
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QueueSize must be greater than 0")
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("StaleAfter must be greater than 0")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SweepInterval must be non-negative")
	}
	return nil
}

// MaxTaskLatency is the longest a task dispatched onto a full queue can take to
// finish when every task runs for at most timeout.
func (c PipelineConfig) MaxTaskLatency(timeout time.Duration) time.Duration {
	if c.Workers <= 0 {
		return 0
	}
	waves := (c.QueueSize + c.Workers - 1) / c.Workers
	return time.Duration(waves+1) * timeout
}
