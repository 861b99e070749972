package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/auth"
	"github.com/stylespizza/pizza-api/internal/services"
)

// Context keys set by Authenticate and read by handlers and RequireRole.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "currentUser"
)

// Authenticate validates the Bearer access token and loads the account it
// belongs to. The role used for authorization comes from the database row,
// not the token, so role changes take effect without waiting for token
// expiry and deleted accounts are rejected immediately.
func Authenticate(tokens *auth.TokenIssuer, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authentication required: No token provided.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Bearer token is empty")
			return
		}

		claims, err := tokens.Parse(tokenString, auth.TokenAccess)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Authentication failed: Invalid JWT.")
			return
		}

		userID, err := auth.UserIDFromClaims(claims)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Authentication failed: Invalid JWT.")
			return
		}

		user, err := users.GetUserByID(userID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Authentication failed: User not found or invalid token.")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// abortWithError writes the failure envelope and stops the chain.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
