package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/warden/service"
)

// AuthMiddleware creates middleware that validates session tokens. The token
// is taken from the session cookie, falling back to a Bearer header for
// service-to-service callers.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil {
			auth := c.GetHeader("Authorization")
			if len(auth) < 8 || auth[:7] != "Bearer " {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
				return
			}
			token = auth[7:]
		}

		session, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Set the user email in the context
		c.Set("userEmail", session.Email)

		c.Next()
	}
}
