package config

import (
	"fmt"
	"time"
)

// minSecretLength is the shortest accepted HS256 signing secret, in bytes.
const minSecretLength = 16

// AuthConfig holds token and rate limit configuration.
type AuthConfig struct {
	// JWTSecret signs and verifies access tokens.
	JWTSecret string
	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration
	// SubmitInterval is the average spacing allowed between request submissions per user.
	// Zero disables the limit.
	SubmitInterval time.Duration
	// SubmitBurst is how many submissions a user may make back to back.
	SubmitBurst int
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:      GetEnv("JWT_SECRET", ""),
		TokenTTL:       GetEnvDuration("JWT_TTL", 24*time.Hour),
		SubmitInterval: GetEnvDuration("SUBMIT_RATE_INTERVAL", 10*time.Second),
		SubmitBurst:    GetEnvInt("SUBMIT_RATE_BURST", 5),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TokenTTL must be greater than 0")
	}
	if c.SubmitInterval < 0 {
		return fmt.Errorf("SubmitInterval must be non-negative")
	}
	if c.SubmitInterval > 0 && c.SubmitBurst <= 0 {
		return fmt.Errorf("SubmitBurst must be greater than 0 when rate limiting is enabled")
	}
	return nil
}
