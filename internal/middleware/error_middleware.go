package middleware

import (
	"fmt"
	"net/http"

	"mediapost/internal/transport/httpdto"
	mediapost_errors "mediapost/pkg/errors"
	"mediapost/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "Something went wrong"

// ErrorHandler renders the last error attached with c.Error as the error envelope.
// Only operational errors expose their message; detail is omitted in production.
func ErrorHandler(l *logger.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := mediapost_errors.HTTPStatus(err)
		operational := mediapost_errors.IsOperational(err)

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		}
		if operational {
			l.Warn(c.Request.Context(), "Request failed", fields...)
		} else {
			l.Error(c.Request.Context(), "Request failed", fields...)
		}

		message := err.Error()
		if !operational {
			message = genericErrorMessage
		}
		resp := httpdto.NewErrorResponse(message, RequestID(c))
		if !production {
			resp.Detail = err.Error()
		}
		c.JSON(status, resp)
	}
}

// Recovery turns a panic into a 500 error envelope.
func Recovery(l *logger.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.Error(c.Request.Context(), "Panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		resp := httpdto.NewErrorResponse(genericErrorMessage, RequestID(c))
		if !production {
			resp.Detail = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}

// NotFoundHandler reports unknown routes through ErrorHandler.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(mediapost_errors.NewNotFoundError(fmt.Sprintf("Route %s not found", c.Request.URL.Path)))
		c.Abort()
	}
}
