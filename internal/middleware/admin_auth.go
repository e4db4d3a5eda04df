package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ratrace/internal/errors"
)

var errAdminNotConfigured = &apperrors.AppError{
	Kind:       apperrors.KindUnauthorized,
	Code:       "ADMIN_NOT_CONFIGURED",
	Message:    "Admin endpoints are not configured",
	StatusCode: http.StatusServiceUnavailable,
}

// AdminAuthMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured admin API key.
func AdminAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, errAdminNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
