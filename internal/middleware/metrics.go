package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"claimassist/internal/metrics"
)

// Metrics records request count, latency and in-flight requests. Routes are
// labelled by their registered pattern to keep label cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.StartRequest()
		c.Next()
		m.FinishRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
