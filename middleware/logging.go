package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"
)

// RequestLogger emits one structured log line per request, with the parsed
// client device for support triage.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ua := useragent.Parse(c.Request.UserAgent())
		device := ua.Name
		if ua.OS != "" {
			device = ua.Name + "/" + ua.OS
		}

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client", device).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
