package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"labelkit/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// Health checks are logged at debug level.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		entry := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			entry.Errorw("http request", fields...)
		case strings.HasPrefix(path, "/health"):
			entry.Debugw("http request", fields...)
		default:
			entry.Infow("http request", fields...)
		}
	}
}
