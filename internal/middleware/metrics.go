package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"eduportal/internal/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
