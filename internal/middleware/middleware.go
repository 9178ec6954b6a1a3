package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
)

// SetupCORS configures CORS middleware
func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// AuthMiddleware extracts the authenticated principal from headers set by
// the upstream gateway and stores it in the request context. Token
// issuance and verification happen outside this service.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse("UNAUTHORIZED", "missing user identity"))
			c.Abort()
			return
		}

		role := c.GetHeader("X-User-Role")
		if role == "" {
			role = string(models.UserRoleBuyer)
		}

		c.Set("userId", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

// RequireRole aborts unless the principal carries one of the roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.UserRole(c.GetString("userRole"))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, models.NewErrorResponse("FORBIDDEN", "insufficient role"))
		c.Abort()
	}
}
