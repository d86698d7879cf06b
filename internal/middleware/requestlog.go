package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/logger"
)

// RequestLog writes one structured line per request.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if uid := c.GetInt(CtxUserID); uid != 0 {
			args = append(args, "uid", uid)
		}
		if c.Writer.Status() >= 500 {
			logger.Error("http.request", args...)
			return
		}
		logger.Debug("http.request", args...)
	}
}
