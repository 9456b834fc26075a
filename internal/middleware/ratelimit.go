package middleware

import (
	"net/http"

	dom "TodoAPI/internal/domain"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit limits the request rate across all clients.
// rps is requests per second, burst allows short spikes above it.
func RateLimit(rps, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = rps
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			_ = c.Error(dom.NewAppError(http.StatusTooManyRequests, "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
