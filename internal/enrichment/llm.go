package enrichment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/pkg/anthropic"
	"github.com/festy23/company_insights/pkg/perplexity"
	"github.com/festy23/company_insights/pkg/retry"
)

const searchPrompt = `Research the company "%s".
Report its official website, a short description, headquarters location, business model,
primary source of revenue and, if published, the revenue split by segment in percent.
Return the raw information as text.`

const extractSystemPrompt = `You extract structured company profiles from research notes.
Respond ONLY with a single JSON object, no prose.`

const extractPrompt = `Based ONLY on the research below about %s, return a JSON object with these fields:
- name: string, the company's official name
- description: string
- website: string, full URL
- logo: string, URL of the logo image if the text names one
- headquarters: string, city and country
- businessModel: string
- primaryRevenue: string
- revenueBreakdown: object mapping segment name to its percentage of revenue as a number

Use null for any field the research does not support.

Research:
---
%s
---`

// LLMConfig configures the LLM enricher.
type LLMConfig struct {
	Model     string
	MaxTokens int64
}

// LLMEnricher researches a company with Perplexity (unless context is supplied)
// and extracts structured data with Claude.
type LLMEnricher struct {
	ai     anthropic.Client
	search perplexity.Client
	cfg    LLMConfig
	logger *zap.SugaredLogger
}

// NewLLMEnricher creates an LLM-backed enricher. search may be nil, in which case
// enrichment without caller-supplied context relies on the model alone.
func NewLLMEnricher(ai anthropic.Client, search perplexity.Client, cfg LLMConfig, logger *zap.SugaredLogger) *LLMEnricher {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &LLMEnricher{ai: ai, search: search, cfg: cfg, logger: logger}
}

// Enrich implements Enricher.
func (e *LLMEnricher) Enrich(ctx context.Context, companyName, contextText string) (*FetchedCompanyData, error) {
	log := e.logger.With("company_name", companyName)

	research := strings.TrimSpace(contextText)
	if research == "" && e.search != nil {
		temperature := 0.2
		req := perplexity.ChatCompletionRequest{
			Messages: []perplexity.Message{
				{Role: "user", Content: fmt.Sprintf(searchPrompt, companyName)},
			},
			Temperature: &temperature,
		}
		policy := retry.HTTPConfig()
		policy.OnRetry = func(attempt int, err error, delay time.Duration) {
			log.Warnw("search attempt failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		}
		resp, err := retry.DoWithResult(ctx, policy, func() (*perplexity.ChatCompletionResponse, error) {
			return e.search.ChatCompletion(ctx, req)
		})
		if err != nil {
			return nil, Failure("search", err)
		}
		research = strings.TrimSpace(resp.Content())
		log.Debugw("search completed", "chars", len(research))
	}
	if research == "" {
		research = "(no research available; use only well-established public facts)"
	}

	temperature := 0.0
	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		System:      extractSystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: fmt.Sprintf(extractPrompt, companyName, research)}},
		Temperature: &temperature,
	})
	if err != nil {
		return nil, Failure("extract", err)
	}

	data, err := ParseFetchedData([]byte(cleanJSON(resp.Text())))
	if err != nil {
		log.Warnw("model returned malformed json", "error", err, "stop_reason", resp.StopReason)
		return nil, Failure("parse", eris.Wrap(err, "decode model reply"))
	}
	data.Normalize(log)

	log.Debugw("enrichment completed",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return data, nil
}
