package middleware

import (
	"context"
	"strconv"

	"mediapost/internal/redis"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/gin-gonic/gin"
)

// LimitFunc is a RateLimiter check such as AllowAuth or AllowUpload.
type LimitFunc func(ctx context.Context, key string) (*redis.RateLimitResult, error)

// RateLimitMiddleware applies allow per client IP. A nil allow disables limiting.
func RateLimitMiddleware(allow LimitFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow == nil {
			c.Next()
			return
		}

		result, err := allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			_ = c.Error(mediapost_errors.NewRateLimitedError("Too many requests, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
