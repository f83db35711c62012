package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the listen host; empty means all interfaces.
	Host string
	// Port is the listen port, with or without a leading colon.
	Port string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration
}

// LoadServerConfigFromEnv loads server configuration from environment variables.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:              GetEnv("SERVER_HOST", ""),
		Port:              GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:       GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout: GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
		WriteTimeout:      GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:       GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// GetAddress returns the listen address for http.Server.
func (c ServerConfig) GetAddress() string {
	port := strings.TrimPrefix(c.Port, ":")
	if c.Host == "" {
		return ":" + port
	}
	return net.JoinHostPort(c.Host, port)
}

// Validate validates server configuration.
func (c ServerConfig) Validate() error {
	if strings.TrimPrefix(c.Port, ":") == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", c.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", c.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", c.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s must be greater than 0", t.name)
		}
	}
	if c.ReadHeaderTimeout < 0 {
		return fmt.Errorf("SERVER_READ_HEADER_TIMEOUT must not be negative")
	}
	return nil
}
