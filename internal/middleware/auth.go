package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/domain"
	"board-sync-api/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

type TokenVerifier interface {
	Verify(token string, expected auth.TokenType) (uuid.UUID, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Auth validates the bearer access token and loads the calling user.
func Auth(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		userID, err := tokens.Verify(parts[1], auth.TokenTypeAccess)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Could not validate credentials")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// GetUserID returns the authenticated user's id set by Auth.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetUser returns the authenticated user loaded by Auth.
func GetUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
