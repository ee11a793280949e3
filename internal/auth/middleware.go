package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"
const contextKeyToken = "auth_token"

// TokenResolver resolves a bearer token to a user ID. Satisfied by *Store.
type TokenResolver interface {
	GetUserID(ctx context.Context, token string) (int64, bool)
}

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// TokenFromContext returns the raw bearer token for the request, for logout.
func TokenFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyToken)
	if !ok {
		return ""
	}
	t, _ := v.(string)
	return t
}

// RequireToken returns a middleware that checks the Authorization header
// for a valid bearer token and sets the current user ID in context.
// If missing or invalid, responds with 401.
func RequireToken(tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, ok := tokens.GetUserID(c.Request.Context(), token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
