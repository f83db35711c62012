// Package handler provides HTTP handlers for company update endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/companyupdate/model"
	"github.com/festy23/company_insights/internal/companyupdate/service"
	"github.com/festy23/company_insights/internal/middleware"
	"github.com/festy23/company_insights/internal/response"
)

// Handler handles HTTP requests for company update endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new company update handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// TriggerRefresh handles POST /admin/companies/:slug/refresh request.
// @Summary Re-enrich a company from supplied research text
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Company slug"
// @Param request body model.RefreshRequest true "Research context"
// @Success 202 {object} model.RefreshResponse
// @Failure 400 {object} response.ErrorResponse "Missing context"
// @Failure 404 {object} response.ErrorResponse "Company not found"
// @Router /admin/companies/{slug}/refresh [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) TriggerRefresh(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}

	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	company, err := h.service.TriggerRefresh(c.Request.Context(), c.Param("slug"), req.Context, identity.UserID)
	if err != nil {
		h.fail(c, "error triggering company refresh", err)
		return
	}

	c.JSON(http.StatusAccepted, model.RefreshResponse{
		Status:    "accepted",
		CompanyID: company.ID,
		Slug:      company.Slug,
	})
}

// List handles GET /admin/company-updates request.
// @Summary List staged company updates
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Failure 400 {object} response.ErrorResponse "Unknown status"
// @Router /admin/company-updates [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) List(c *gin.Context) {
	updates, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, "error listing company updates", err)
		return
	}

	c.JSON(http.StatusOK, model.ListResponse{Updates: updates})
}

// Approve handles POST /admin/company-updates/:updateId/approve request.
// @Summary Merge a staged update into its company
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param updateId path int true "Update ID"
// @Success 200 {object} model.UpdateResponse
// @Failure 404 {object} response.ErrorResponse "Update or company not found"
// @Failure 409 {object} response.ErrorResponse "Already reviewed; carries current_status"
// @Failure 500 {object} response.ErrorResponse "Merge failed and was rolled back"
// @Router /admin/company-updates/{updateId}/approve [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve, "error approving company update")
}

// Reject handles POST /admin/company-updates/:updateId/reject request.
// @Summary Discard a staged update
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param updateId path int true "Update ID"
// @Success 200 {object} model.UpdateResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Failure 409 {object} response.ErrorResponse "Already reviewed; carries current_status"
// @Router /admin/company-updates/{updateId}/reject [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject, "error rejecting company update")
}

func (h *Handler) review(
	c *gin.Context,
	op func(ctx context.Context, updateID, reviewerID int64) (*model.CompanyUpdate, error),
	logMsg string,
) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}
	updateID, err := strconv.ParseInt(c.Param("updateId"), 10, 64)
	if err != nil || updateID <= 0 {
		response.BadRequest(c, "updateId must be a positive integer")
		return
	}

	update, err := op(c.Request.Context(), updateID, identity.UserID)
	if err != nil {
		h.fail(c, logMsg, err)
		return
	}

	c.JSON(http.StatusOK, model.UpdateResponse{Update: update})
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if !response.FromError(c, err) {
		h.logger.Errorw(msg, "error", err, "request_id", middleware.RequestIDFromContext(c))
	}
}
