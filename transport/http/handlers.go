package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/warden/service"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "jwt"

// sessionCookieMaxAge mirrors the token lifetime
const sessionCookieMaxAge = 600

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// Signup handles user registration
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req struct {
		Email             string `json:"email" binding:"required"`
		Password          string `json:"password" binding:"required"`
		RequiresTwoFactor bool   `json:"requires2FA"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.RequiresTwoFactor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, service.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
}

// Login handles the login request. A user without a second factor gets a
// session cookie; a user with one gets a 206 carrying the attempt id.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, service.ErrIncorrectCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	if result.TwoFactor != nil {
		c.JSON(http.StatusPartialContent, gin.H{
			"message":        result.TwoFactor.Message,
			"loginAttemptId": result.TwoFactor.AttemptID.String(),
		})
		return
	}

	setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// VerifyTwoFactor handles second-factor verification
func (h *AuthHandlers) VerifyTwoFactor(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		AttemptID string `json:"loginAttemptId" binding:"required"`
		Code      string `json:"2FACode" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.authService.VerifyTwoFactor(c.Request.Context(), req.Email, req.AttemptID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		case errors.Is(err, service.ErrIncorrectCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// Logout revokes the session token carried by the cookie and clears it
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	// The cookie is cleared whether or not the token turns out to be valid.
	clearSessionCookie(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// VerifyToken checks a token on behalf of another service without mutating
// any state
func (h *AuthHandlers) VerifyToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.authService.VerifyToken(c.Request.Context(), req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token is valid"})
}

// Me returns information about the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	// User email is set by the auth middleware
	email, exists := c.Get("userEmail")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": email,
	})
}
