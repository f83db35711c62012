package config

import (
	"fmt"
	"time"
)

// EnrichmentConfig holds external research provider configuration.
type EnrichmentConfig struct {
	// AnthropicAPIKey enables the LLM enricher. Without it a static enricher is used.
	AnthropicAPIKey string
	// AnthropicModel is the Claude model used for extraction.
	AnthropicModel string
	// MaxTokens bounds the extraction reply.
	MaxTokens int
	// PerplexityAPIKey enables web search when no research context is supplied.
	PerplexityAPIKey string
	// PerplexityModel is the search model.
	PerplexityModel string
	// Timeout bounds a single enrichment call.
	Timeout time.Duration
}

// LoadEnrichmentConfigFromEnv loads enrichment configuration from environment variables.
func LoadEnrichmentConfigFromEnv() EnrichmentConfig {
	return EnrichmentConfig{
		AnthropicAPIKey:  GetEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   GetEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		MaxTokens:        GetEnvInt("ANTHROPIC_MAX_TOKENS", 2048),
		PerplexityAPIKey: GetEnv("PERPLEXITY_API_KEY", ""),
		PerplexityModel:  GetEnv("PERPLEXITY_MODEL", "sonar"),
		Timeout:          GetEnvDuration("ENRICHMENT_TIMEOUT", 90*time.Second),
	}
}

// UseLLM reports whether an Anthropic key is configured.
func (c EnrichmentConfig) UseLLM() bool {
	return c.AnthropicAPIKey != ""
}

// UseSearch reports whether a Perplexity key is configured.
func (c EnrichmentConfig) UseSearch() bool {
	return c.PerplexityAPIKey != ""
}

// Validate validates enrichment configuration.
func (c EnrichmentConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be greater than 0")
	}
	if c.UseLLM() {
		if c.AnthropicModel == "" {
			return fmt.Errorf("ANTHROPIC_MODEL is required when ANTHROPIC_API_KEY is set")
		}
		if c.MaxTokens <= 0 {
			return fmt.Errorf("MaxTokens must be greater than 0")
		}
	}
	return nil
}
