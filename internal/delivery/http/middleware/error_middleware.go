package middleware

import (
	"errors"
	"net/http"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"path", c.FullPath(),
					"request_id", c.GetString(RequestIDKey),
					"error", err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("unhandled error",
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
