// Package handler provides HTTP handlers for company endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/company/model"
	"github.com/festy23/company_insights/internal/company/repository"
	"github.com/festy23/company_insights/internal/response"
)

// Handler handles HTTP requests for company endpoints.
type Handler struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new company handler instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// GetCompany handles GET /companies/:slug request.
//
// @Summary      Get company
// @Description  Returns the canonical company record for a slug
// @Tags         Companies
// @Produce      json
// @Param        slug  path      string  true  "Company slug"
// @Success      200   {object}  map[string]model.Company
// @Failure      404   {object}  response.ErrorResponse
// @Router       /companies/{slug} [get]
//
//nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, model.ErrCompanyNotFound) {
			response.NotFound(c, "company not found")
			return
		}
		h.logger.Errorw("error getting company", "slug", c.Param("slug"), "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// ListCompanies handles GET /companies request.
//
// @Summary      List companies
// @Tags         Companies
// @Produce      json
// @Success      200  {object}  map[string][]model.Company
// @Router       /companies [get]
//
//nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error listing companies", "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}
