package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/warden/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
		auth.POST("/verify-2fa", handlers.VerifyTwoFactor)
		auth.POST("/logout", handlers.Logout)
		auth.POST("/verify-token", handlers.VerifyToken)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(authService))
	{
		api.GET("/me", handlers.Me)
	}

	return router
}
