package middleware

import (
	"strings"

	"mediapost/internal/services"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TokenVerifier interface {
	ParseAccessToken(token string) (*services.AccessClaims, error)
}

// AuthMiddleware requires a valid bearer token and stores the user id on the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			_ = c.Error(mediapost_errors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}

		claims, err := verifier.ParseAccessToken(token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			_ = c.Error(mediapost_errors.NewUnauthorizedError("Invalid token"))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(services.WithUserContext(c.Request.Context(), userID))
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
