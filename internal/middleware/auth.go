package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"haushaltsbuch/internal/auth"
	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

// TokenValidator validates an access token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// UserResolver looks up the user a validated token refers to.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware verifies the bearer token, resolves its subject to a
// stored user and sets the user in the context. Every failure yields the
// same 401 response.
func AuthMiddleware(tokens TokenValidator, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		// A token for a user that no longer exists is no better than a bad one
		user, err := users.GetUserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UsernameKey, user.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(apperrors.ErrUnauthorized.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": apperrors.ErrUnauthorized.Message,
		},
	})
}
