package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/logger"
)

// RequestLogger returns a middleware that logs every request with method,
// path, status, and latency. The health endpoint is silently skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.WithComponent("http")

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := map[string]any{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields["request_id"] = id
		}

		switch {
		case status >= 500:
			reqLog.Error("Request completed", fields)
		case status >= 400:
			reqLog.Warn("Request completed", fields)
		default:
			reqLog.Debug("Request completed", fields)
		}
	}
}
