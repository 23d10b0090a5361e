package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/contentscore/logging"
)

// KeywordKey is the context key handlers set to the analyzed primary keyword
const KeywordKey = "primary_keyword"

// Stats tracks visitors and analysis requests. Only POSTs under /api/analyze
// and /api/preview count as analyses.
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost {
			return
		}
		switch c.FullPath() {
		case "/api/analyze", "/api/preview":
			loadTime := float64(time.Since(start).Microseconds()) / 1000
			stats.TrackAnalysis(c.GetString(KeywordKey), loadTime, c.Writer.Status() >= http.StatusBadRequest)
		}
	}
}
