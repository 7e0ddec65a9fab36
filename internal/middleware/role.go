package middleware

import (
	"modqueue/internal/models"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects authenticated principals whose role is not
// ADMIN. Composes after Auth; pure predicate, no side effects.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			util.Unauthenticated(c)
			return
		}
		switch p.Role {
		case models.RoleAdmin:
			c.Next()
		case models.RoleUser:
			util.Forbidden(c, "Admin access required")
		default:
			util.Forbidden(c, "Admin access required")
		}
	}
}
