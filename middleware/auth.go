package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth gates protected routes. SessionMiddleware must run first; any
// request that resolved no identity is rejected before it can touch the
// store.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
