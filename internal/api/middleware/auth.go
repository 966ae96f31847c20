package middleware

import (
	"strings"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthRequired verifies the bearer access token and stores the caller's
// identity on the request context.
func AuthRequired(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(401, gin.H{"success": false, "error": "Authorization token is required"})
			c.Abort()
			return
		}

		userID, err := authService.VerifyToken(token, services.TokenTypeAccess)
		if err != nil {
			c.JSON(401, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// AdminRequired loads the caller and rejects non-admins. Must run after
// AuthRequired.
func AdminRequired(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, err := authService.IsAdmin(c.GetUint("user_id"))
		if err != nil || !isAdmin {
			c.JSON(403, gin.H{"success": false, "error": "Admin privileges required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
