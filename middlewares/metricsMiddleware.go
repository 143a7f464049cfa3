package middlewares

import (
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/observability"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and latency per route template.
func MetricsMiddleware(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
