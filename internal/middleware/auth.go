package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
	"github.com/emilythestrangee/threadboard/backend/internal/auth"
)

const userIDKey = "user_id"

// AuthMiddleware rejects requests without a valid bearer token and stores
// the authenticated user id in the context.
func AuthMiddleware(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := guard.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err, "Not authenticated")})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int)
	return id, ok
}
