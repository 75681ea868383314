package middleware

import (
	"os"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware configures CORS headers based on the environment
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if os.Getenv("ENVIRONMENT") == "production" {
			// In production, only allow specific origins
			allowedOrigins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
			origin := c.Request.Header.Get("Origin")

			if slices.Contains(allowedOrigins, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else {
			// Allow all origins in non-production environments
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
