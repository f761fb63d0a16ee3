package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/logger"
)

// respondWithError writes the API error body `{error, details?}`. If the
// error is an *AppError it uses the error's status and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
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
		body := gin.H{"error": appErr.Message}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.StatusCode, body)
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{"error": apperrors.ErrInternalServer.Message})
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
