package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bankdocs-backend/internal/shared/server/respond"
)

// Auth enforces the X-API-Key header on all routes. An empty configured key
// disables the check for local development.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if apiKey == "" {
			c.Next()
			return
		}

		provided := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if provided == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing API key", nil)
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid API key", nil)
			return
		}
		c.Next()
	}
}
