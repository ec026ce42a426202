package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EmployeeMiddleware checks that the authenticated user is a government
// employee. All authorization failures render the same message so role
// information does not leak.
func EmployeeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(CtxRole)
		if !exists {
			forbidden(c)
			return
		}

		role, ok := roleValue.(string)
		if !ok || role != "employee" {
			forbidden(c)
			return
		}

		c.Next()
	}
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   gin.H{"code": "FORBIDDEN", "message": "Forbidden"},
	})
	c.Abort()
}
