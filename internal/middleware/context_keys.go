package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated operator's subject.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context, falling back to the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	if c.Request == nil {
		return "", false
	}
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
