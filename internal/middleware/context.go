package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/festy23/company_insights/internal/auth"
)

// Context keys set by middleware.
const (
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"
)

// CurrentIdentity returns the caller identity stored by Auth.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := id.(auth.Identity)
	return identity, ok
}

// RequestIDFromContext extracts the request identifier if available.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
