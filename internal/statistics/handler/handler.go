// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/response"
	"github.com/festy23/company_insights/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetPipelineStatistics handles GET /admin/statistics/pipeline request.
// @Summary Get pipeline counters
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PipelineStatisticsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/statistics/pipeline [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetPipelineStatistics(c *gin.Context) {
	resp, err := h.service.GetPipelineStatistics(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting pipeline statistics", "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}
