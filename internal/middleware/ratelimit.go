package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtprotection/blog-core/internal/pkg/response"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
	rateLimitPrefix = "blog:rate_limit:"
)

// RateLimit enforces a fixed one-second window of 50 requests per client IP
// for anonymous traffic. Counter failures let the request through.
func RateLimit(kv KV) gin.HandlerFunc {
	return rateLimit(kv, rateLimitMax, time.Now)
}

func rateLimit(kv KV, max int64, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if kv == nil || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s%s:%d", rateLimitPrefix, ip, now().Unix())
		count, err := kv.Incr(c.Request.Context(), key, rateLimitWindow+time.Second)
		if err != nil {
			c.Next()
			return
		}

		if count > max {
			c.Header("Retry-After", "1")
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
