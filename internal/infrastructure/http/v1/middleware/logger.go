package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fowlpos/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		// Liveness probes fire every few seconds; logging them drowns
		// the settlement traffic we actually read these logs for.
		if strings.HasPrefix(path, "/health") {
			return
		}

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		}
		if key := c.GetString("idempotency_key"); key != "" {
			fields = append(fields, "idempotency_key", key)
		}

		log.WithContext(c.Request.Context()).Infow("http request", fields...)
	}
}
