package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"teleka/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthAdminMiddleware accepts either the configured static admin token or
// a login token carrying the admin role.
func JWTAuthAdminMiddleware(staticToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if staticToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(staticToken)) == 1 {
			c.Set("isAdmin", true)
			c.Next()
			return
		}

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil || claims["role"] != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("adminEmail", claims["email"])
		c.Set("isAdmin", true)
		c.Next()
	}
}
