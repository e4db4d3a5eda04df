package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ratrace/internal/logger"
	"ratrace/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with a unique
// request ID, method, path, status code, latency, and client IP using Zap.
// An incoming X-Request-ID is kept so clients can correlate retries.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if ownerID, ok := c.Get(OwnerIDKey); ok {
			fields = append(fields, "owner_id", ownerID)
		}
		if gameID := c.Param("id"); gameID != "" {
			fields = append(fields, "game_id", gameID)
		}
		logger.Get().Infow("request", fields...)
	}
}
