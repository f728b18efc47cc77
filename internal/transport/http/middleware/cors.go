package middleware

import (
	"log"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/internal/config"
)

// IsOriginAllowed reports whether origin is in the configured allow list.
func IsOriginAllowed(origin string) bool {
	if config.AppConfig == nil {
		return false
	}
	return slices.Contains(config.AppConfig.AllowedOrigins, origin)
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// No origin header (curl, same-origin): nothing to check
		if origin != "" {
			if !IsOriginAllowed(origin) {
				log.Printf("[CORS] Origin '%s' not in allowed list", origin)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Origin not allowed"})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		// Handle preflight OPTIONS requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
