// Package handler provides HTTP handlers for company request endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/company_insights/internal/companyrequest/model"
	"github.com/festy23/company_insights/internal/companyrequest/service"
	"github.com/festy23/company_insights/internal/middleware"
	"github.com/festy23/company_insights/internal/response"
)

// Handler handles HTTP requests for company request endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new company request handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Submit handles POST /company-requests request.
// @Summary Ask for a company to be added
// @Tags CompanyRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SubmitRequest true "Request"
// @Success 201 {object} model.RequestResponse
// @Failure 400 {object} response.ErrorResponse "Empty or too long company_name"
// @Failure 429 {object} response.ErrorResponse "Rate limited"
// @Router /company-requests [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Submit(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}

	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "company_name is required")
		return
	}

	created, err := h.service.Submit(c.Request.Context(), identity.UserID, req.CompanyName)
	if err != nil {
		h.fail(c, "error submitting company request", err)
		return
	}

	c.JSON(http.StatusCreated, model.RequestResponse{Request: created})
}

// ListMine handles GET /company-requests request.
// @Summary List the caller's company requests
// @Tags CompanyRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ListResponse
// @Router /company-requests [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListMine(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), identity.UserID)
	if err != nil {
		h.fail(c, "error listing company requests", err)
		return
	}

	c.JSON(http.StatusOK, model.ListResponse{Requests: requests})
}

// Delete handles DELETE /company-requests/:requestId request.
// @Summary Withdraw an own request
// @Tags CompanyRequests
// @Security BearerAuth
// @Param requestId path int true "Request ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse "Not found or not owned"
// @Failure 409 {object} response.ErrorResponse "Request is processing or approved"
// @Router /company-requests/{requestId} [delete] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Delete(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), requestID, identity.UserID); err != nil {
		h.fail(c, "error deleting company request", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAll handles GET /admin/company-requests request.
// @Summary List all company requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} model.ListResponse
// @Failure 400 {object} response.ErrorResponse "Unknown status"
// @Router /admin/company-requests [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListAll(c *gin.Context) {
	requests, err := h.service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, "error listing company requests", err)
		return
	}

	c.JSON(http.StatusOK, model.ListResponse{Requests: requests})
}

// Approve handles PATCH /admin/company-requests/:requestId request.
// @Summary Approve a request and start enrichment
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param requestId path int true "Request ID"
// @Success 202 {object} model.RequestResponse "Processing started"
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Failure 409 {object} response.ErrorResponse "Not pending or failed; carries current_status"
// @Router /admin/company-requests/{requestId} [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve, http.StatusAccepted, "error approving company request")
}

// Reject handles PATCH /admin/company-requests/:requestId/reject and
// DELETE /admin/company-requests/:requestId requests.
// @Summary Reject a pending request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param requestId path int true "Request ID"
// @Success 200 {object} model.RequestResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Failure 409 {object} response.ErrorResponse "Not pending; carries current_status"
// @Router /admin/company-requests/{requestId}/reject [patch] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject, http.StatusOK, "error rejecting company request")
}

// transition runs an admin status change and renders the outcome.
func (h *Handler) transition(
	c *gin.Context,
	op func(ctx context.Context, requestID, adminID int64) (*model.CompanyRequest, error),
	successStatus int,
	logMsg string,
) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
		return
	}
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	req, err := op(c.Request.Context(), requestID, identity.UserID)
	if err != nil {
		h.fail(c, logMsg, err)
		return
	}

	c.JSON(successStatus, model.RequestResponse{Request: req})
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if !response.FromError(c, err) {
		h.logger.Errorw(msg, "error", err, "request_id", middleware.RequestIDFromContext(c))
	}
}

func requestIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "requestId must be a positive integer")
		return 0, false
	}
	return id, true
}
