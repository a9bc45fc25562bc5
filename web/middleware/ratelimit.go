package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yatube/yatube/logger"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	// Methods limits counting to these request methods; empty counts all.
	Methods []string
	// OnLimit renders the rejection. The middleware aborts afterwards.
	OnLimit gin.HandlerFunc
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		Methods: []string{http.MethodPost},
		OnLimit: func(c *gin.Context) {
			c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
}

func (config RateLimitConfig) counts(method string) bool {
	if len(config.Methods) == 0 {
		return true
	}
	for _, m := range config.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// RateLimitMiddleware counts requests per key and path in one minute windows.
// Counters live in memory and vanish with the process.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	counters := cache.New(time.Minute, 2*time.Minute)

	return func(c *gin.Context) {
		if !config.counts(c.Request.Method) {
			c.Next()
			return
		}

		key := config.KeyFunc(c)
		rateLimitKey := "ratelimit:" + key + ":" + c.Request.URL.Path

		// Add only succeeds for a new window; it starts the expiration.
		_ = counters.Add(rateLimitKey, 0, time.Minute)
		count, err := counters.IncrementInt(rateLimitKey, 1)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		remaining := config.RequestsPerMinute - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, c.Request.URL.Path, count)
			config.OnLimit(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
