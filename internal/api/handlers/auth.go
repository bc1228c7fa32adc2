package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/ballpit/internal/auth"
	"github.com/playmatatu/ballpit/internal/config"
)

// AuthMiddleware validates the bearer session token and checks that it grants the
// session named in the :id path parameter.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		sessionID, err := auth.ParseSessionToken(cfg.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id := c.Param("id"); id != "" && id != sessionID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not grant this session"})
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
