package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/festy23/company_insights/internal/response"
)

// RateLimit applies a token bucket per caller: the authenticated user when
// known, the client IP otherwise. A non-positive interval or burst disables it.
func RateLimit(interval time.Duration, burst int) gin.HandlerFunc {
	if interval <= 0 || burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if identity, ok := CurrentIdentity(c); ok {
			key = "user:" + strconv.FormatInt(identity.UserID, 10)
		}

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(interval), burst)
			limiters[key] = limiter
		}
		allowed := limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.Error(c, response.CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
