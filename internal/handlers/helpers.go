package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "ratrace/internal/errors"
	"ratrace/internal/logger"
	"ratrace/internal/services"
)

// IdempotencyHeader carries the client's command key.
const IdempotencyHeader = "Idempotency-Key"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getOwnerID extracts the authenticated session owner from the Gin context.
// Returns ErrUnauthorized if not present.
func getOwnerID(c *gin.Context) (string, error) {
	ownerID, exists := c.Get("ownerID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	id, ok := ownerID.(string)
	if !ok || id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// commandFrom builds the service command for the game in the :id path
// parameter.
func commandFrom(c *gin.Context) (services.Command, error) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		return services.Command{}, err
	}
	key := c.GetHeader(IdempotencyHeader)
	if len(key) > 128 {
		return services.Command{}, apperrors.WithMessage(apperrors.ErrInvalidInput, IdempotencyHeader+" must be at most 128 characters")
	}
	return services.Command{
		OwnerID:        ownerID,
		GameID:         c.Param("id"),
		IdempotencyKey: key,
	}, nil
}

// bindJSON binds the request body, reporting failures as invalid input.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return false
	}
	return true
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, kind, code, and message. Otherwise
// it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{
			Kind:    string(appErr.Kind),
			Code:    appErr.Code,
			Message: appErr.Message,
		}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Kind:    string(apperrors.ErrInternalServer.Kind),
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}
