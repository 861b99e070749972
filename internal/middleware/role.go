package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/models"
)

// RequireRole allows the request through only when the authenticated user's
// role is one of the listed roles. Roles are the closed models.Role set, so
// an impossible role combination fails to compile rather than at runtime.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			abortWithError(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		value, exists := c.Get(ContextUserRole)
		if !exists {
			abortWithError(c, http.StatusForbidden, "User role not found")
			return
		}

		role, ok := value.(models.Role)
		if !ok || !role.Valid() {
			abortWithError(c, http.StatusForbidden, "Invalid role format")
			return
		}

		for _, candidate := range allowed {
			if role == candidate {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, "Authorization failed: Unauthorized access.")
	}
}
