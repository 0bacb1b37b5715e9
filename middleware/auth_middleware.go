package middleware

import (
	"net/http"
	"strings"

	"campusfind/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and puts the reporter identity
// (roll number) on the request context. Browsing never goes through this;
// only submission and mark-as-found do.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization token required", nil)
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(token, jwtSecret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		if claims.RollNo == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "No reporter identity in token", nil)
			c.Abort()
			return
		}

		c.Set("rollNo", claims.RollNo)
		c.Set("email", claims.Email)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
