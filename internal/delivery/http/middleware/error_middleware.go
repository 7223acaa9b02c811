package middleware

import (
	"errors"
	"net/http"

	"go-survey-backend/internal/delivery/http/response"
	"go-survey-backend/pkg/apperror"
	"go-survey-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Fields != nil {
					// Rejected form: field-level messages so the form can be
					// re-rendered with inline errors
					response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
					return
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
				return
			}
			// Never expose internal error details to clients; log server-side
			// and send a generic message.
			logger.Log.Error("unhandled request error", "path", c.Request.URL.Path, "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
