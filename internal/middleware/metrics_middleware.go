package middleware

import (
	"strconv"
	"time"

	"mediapost/internal/metrics"

	"github.com/gin-gonic/gin"
)

func MetricsMiddleware(m metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
