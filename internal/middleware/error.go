package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into the API's error body `{error, details?}`. AppErrors keep
// their status and message; unexpected errors are logged and return a
// generic internal error so nothing leaks to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
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
}
