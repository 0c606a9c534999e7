package middleware

import (
	"log/slog"
	"time"

	"github.com/Kavas-89/Task-Management-System/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tomasen/realip"
)

const traceIDHeader = "X-Request-ID"

// RequestLogger assigns a trace ID to every request and writes an access
// log line when it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		tid := c.GetHeader(traceIDHeader)
		if tid == "" {
			tid = uuid.NewString()
		}
		c.Set(constants.ContextKeyTraceID, tid)
		c.Header(traceIDHeader, tid)

		c.Next()

		userAttrs := slog.Group("user", "ip", realip.FromRequest(c.Request))
		requestAttrs := slog.Group("request",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"proto", c.Request.Proto,
			constants.ContextKeyTraceID, tid,
		)
		responseAttrs := slog.Group("response",
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
			"latency", time.Since(start),
		)

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "access", userAttrs, requestAttrs, responseAttrs)
	}
}
