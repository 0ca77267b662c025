package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records in-flight requests and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPStarted()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPFinished(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
