package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latency by route template.  Unmatched
// routes are reported as "unmatched" to keep label cardinality bounded.
func Metrics(m *prometheus.DetectionMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
