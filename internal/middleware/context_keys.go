package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey holds the authenticated holder id (the token subject).
const userIDKey = contextKey("userID")

// roleKey holds the authenticated caller's role.
const roleKey = contextKey("role")

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRoleFromContext retrieves the authenticated caller's role.
func GetRoleFromContext(c *gin.Context) (Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(Role)
	return role, ok
}

func withIdentity(ctx context.Context, userID string, role Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
