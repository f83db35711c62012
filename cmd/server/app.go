package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/auth"
	companyRepository "github.com/festy23/company_insights/internal/company/repository"
	companyRouter "github.com/festy23/company_insights/internal/company/router"
	requestRepository "github.com/festy23/company_insights/internal/companyrequest/repository"
	requestRouter "github.com/festy23/company_insights/internal/companyrequest/router"
	requestService "github.com/festy23/company_insights/internal/companyrequest/service"
	updateRepository "github.com/festy23/company_insights/internal/companyupdate/repository"
	updateRouter "github.com/festy23/company_insights/internal/companyupdate/router"
	updateService "github.com/festy23/company_insights/internal/companyupdate/service"
	"github.com/festy23/company_insights/internal/config"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/enrichment"
	"github.com/festy23/company_insights/internal/health"
	"github.com/festy23/company_insights/internal/middleware"
	statisticsRouter "github.com/festy23/company_insights/internal/statistics/router"
	"github.com/festy23/company_insights/pkg/anthropic"
	"github.com/festy23/company_insights/pkg/perplexity"
)

// app holds the wired HTTP engine and the services the run group needs.
type app struct {
	engine   *gin.Engine
	requests requestService.Service
	updates  updateService.Service
}

func newApp(cfg config.Config, db *gorm.DB, pool *dispatch.Pool, enricher enrichment.Enricher, log *zap.SugaredLogger) *app {
	companies := companyRepository.New(db, log)
	requests := requestService.New(requestRepository.New(db, log), companies, enricher, pool, log)
	updates := updateService.New(updateRepository.New(db, log), companies, db, enricher, pool, log)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	r.GET("/health", health.New(db, pool, log).Check)
	companyRouter.RegisterRoutes(r, db, log)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	user := r.Group("", middleware.Auth(tokens))
	admin := r.Group("/admin", middleware.Auth(tokens), middleware.RequireAdmin())

	requestRouter.RegisterRoutes(user, admin, requests, log,
		middleware.RateLimit(cfg.Auth.SubmitInterval, cfg.Auth.SubmitBurst))
	updateRouter.RegisterRoutes(admin, updates, log)
	statisticsRouter.RegisterRoutes(admin, db, log)

	return &app{engine: r, requests: requests, updates: updates}
}

// newEnricher picks the LLM pipeline when an Anthropic key is configured and
// falls back to the static enricher otherwise.
func newEnricher(cfg config.EnrichmentConfig, log *zap.SugaredLogger) enrichment.Enricher {
	if !cfg.UseLLM() {
		log.Warnw("ANTHROPIC_API_KEY not set, using static enrichment")
		return enrichment.WithTimeout(enrichment.StaticEnricher{}, cfg.Timeout)
	}

	var search perplexity.Client
	if cfg.UseSearch() {
		search = perplexity.NewClient(cfg.PerplexityAPIKey, perplexity.WithModel(cfg.PerplexityModel))
	}

	llm := enrichment.NewLLMEnricher(
		anthropic.NewClient(cfg.AnthropicAPIKey),
		search,
		enrichment.LLMConfig{Model: cfg.AnthropicModel, MaxTokens: int64(cfg.MaxTokens)},
		log.Named("enrichment"),
	)
	log.Infow("LLM enrichment enabled", "model", cfg.AnthropicModel, "search", cfg.UseSearch())
	return enrichment.WithTimeout(llm, cfg.Timeout)
}
