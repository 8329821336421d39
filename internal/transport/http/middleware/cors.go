package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CORSMiddleware answers preflights and rejects browser origins that originAllowed
// refuses. Requests without an Origin header (curl, same-origin) pass through.
func CORSMiddleware(originAllowed func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" {
			if !originAllowed(origin) {
				log.Warn().Str("origin", origin).Msg("[CORS] Origin not in allowed list")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Origin not allowed"})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		// Handle preflight OPTIONS requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
