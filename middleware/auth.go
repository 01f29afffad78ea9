package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"kitobxona_go/config"
	"kitobxona_go/utils"
)

// AuthMiddleware guards admin routes with a staff bearer token. Claims
// are stored on the context under "staff_id" / "staff_email".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			utils.Unauthorized(c, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := config.GetJWTService().ValidateToken(token)
		if err != nil {
			utils.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("staff_email", claims.Email)
		c.Next()
	}
}
