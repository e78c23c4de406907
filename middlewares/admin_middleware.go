// middlewares/admin_middleware.go
package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards the operational endpoints (job triggers,
// backups) with a shared token. An empty configured token disables the
// endpoints entirely.
func AdminMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
			return
		}
		if c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
