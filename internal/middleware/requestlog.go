package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lgdx/analytics-backend/internal/logger"
)

// RequestLog logs one structured line per request. The user_id path param is
// passed through the logger's redaction layer, which hashes it when
// redaction is enabled.
type RequestLog struct {
	log *logger.Logger
}

func NewRequestLog(log *logger.Logger) *RequestLog {
	return &RequestLog{log: log.With("middleware", "RequestLog")}
}

func (m *RequestLog) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kvs := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := c.Param("user_id"); userID != "" {
			kvs = append(kvs, "user_id", userID)
		}

		if c.Writer.Status() >= 500 {
			m.log.Error("request", kvs...)
			return
		}
		m.log.Info("request", kvs...)
	}
}
