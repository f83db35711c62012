package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/festy23/company_insights/internal/auth"
	"github.com/festy23/company_insights/internal/response"
)

// TokenCookie is the cookie consulted when no Authorization header is sent.
const TokenCookie = "token"

// Auth validates the bearer token (header or cookie) and stores the caller identity.
func Auth(manager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
			return
		}

		identity, err := manager.ParseToken(token)
		if err != nil {
			response.Error(c, response.CodeUnauthorized, "invalid token", http.StatusUnauthorized)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// RequireAdmin rejects callers whose identity is not an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Error(c, response.CodeUnauthorized, "missing credentials", http.StatusUnauthorized)
			return
		}
		if !identity.IsAdmin {
			response.Error(c, response.CodeForbidden, "admin access required", http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
