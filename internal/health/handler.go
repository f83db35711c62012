// Package health provides the liveness endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/company_insights/internal/database/database"
	"github.com/festy23/company_insights/internal/dispatch"
)

// QueueReporter exposes the background pipeline's queue state.
type QueueReporter interface {
	Stats() dispatch.Stats
}

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	queue  QueueReporter
	logger *zap.SugaredLogger
}

// New creates a new health handler instance. queue may be nil.
func New(db *gorm.DB, queue QueueReporter, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		queue:  queue,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status   string          `json:"status"`
	Database *DatabaseStatus `json:"database,omitempty"`
	Queue    *dispatch.Stats `json:"queue,omitempty"`
}

// DatabaseStatus summarises the connection pool.
type DatabaseStatus struct {
	OpenConnections int `json:"open_connections"`
	InUse           int `json:"in_use"`
	Idle            int `json:"idle"`
}

// Check handles GET /health request.
//
// @Summary      Health check
// @Description  Reports database reachability and background queue depth
// @Tags         Health
// @Produce      json
// @Success      200  {object}  Response
// @Failure      503  {object}  Response
// @Router       /health [get]
//
//nolint:godot // Swagger annotation should not end with period
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy"})
		return
	}

	resp := Response{Status: "ok"}
	if stats, err := database.Stats(h.db); err == nil {
		resp.Database = &DatabaseStatus{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
		}
	}
	if h.queue != nil {
		q := h.queue.Stats()
		resp.Queue = &q
		// A closed queue means approvals can no longer be scheduled.
		if q.Closed {
			resp.Status = "degraded"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
