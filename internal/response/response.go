// Package response provides the shared JSON error envelope for HTTP handlers.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/workflow"
)

// Error codes returned in the envelope.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "STATUS_CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents the error envelope.
type ErrorResponse struct {
	Error struct {
		Code          string `json:"code"`
		Message       string `json:"message"`
		CurrentStatus string `json:"current_status,omitempty"`
	} `json:"error"`
}

// Error writes an error envelope and aborts the request.
func Error(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.AbortWithStatusJSON(statusCode, resp)
}

// BadRequest creates 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, CodeInvalidRequest, message, http.StatusBadRequest)
}

// NotFound creates 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message, http.StatusNotFound)
}

// Conflict creates 409 error response carrying the entity's current status.
func Conflict(c *gin.Context, message string, currentStatus string) {
	resp := ErrorResponse{}
	resp.Error.Code = CodeConflict
	resp.Error.Message = message
	resp.Error.CurrentStatus = currentStatus
	c.AbortWithStatusJSON(http.StatusConflict, resp)
}

// Unavailable creates 503 error response.
func Unavailable(c *gin.Context, message string) {
	Error(c, CodeUnavailable, message, http.StatusServiceUnavailable)
}

// Internal creates 500 error response.
func Internal(c *gin.Context) {
	Error(c, CodeInternal, "internal server error", http.StatusInternalServerError)
}

// FromError maps a workflow taxonomy error onto an HTTP response.
// Unknown errors become 500 and are reported as false so the caller can log them.
func FromError(c *gin.Context, err error) bool {
	var validation *workflow.ValidationError
	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Error())
		return true
	case errors.Is(err, workflow.ErrValidation):
		BadRequest(c, err.Error())
		return true
	case errors.Is(err, workflow.ErrNotFound):
		NotFound(c, err.Error())
		return true
	case errors.Is(err, workflow.ErrConflict):
		status, _ := workflow.CurrentStatus(err)
		Conflict(c, err.Error(), status)
		return true
	case errors.Is(err, dispatch.ErrQueueFull), errors.Is(err, dispatch.ErrClosed):
		Unavailable(c, "background workers are busy, retry later")
		return true
	default:
		Internal(c)
		return false
	}
}
