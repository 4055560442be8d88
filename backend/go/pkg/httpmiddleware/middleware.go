package httpmiddleware

import (
	"net/http"

	"Saber/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// RateLimitBy rejects requests with 429 once the bucket of their key runs dry.
// key returns "" to skip limiting.
func RateLimitBy(limiter ratelimiter.KeyedLimiter, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k != "" && !limiter.AllowKey(k) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}
