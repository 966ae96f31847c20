package handlers

import (
	"strings"

	"netvault/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, "No data provided")
		return
	}

	var missing []string
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		Fail(c, 400, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password, requestMeta(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 201, "User registered successfully", user.Serialize(true))
}

// Login verifies credentials and issues access and refresh tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, "No data provided")
		return
	}

	if req.Username == "" || req.Password == "" {
		Fail(c, 400, "Username and password are required")
		return
	}

	user, accessToken, refreshToken, err := h.authService.Login(req.Username, req.Password, requestMeta(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "Login successful", gin.H{
		"user":          user.Serialize(true),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token travels in the Authorization header.
func (h *AuthHandler) Refresh(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		Fail(c, 401, "Authorization token is required")
		return
	}

	accessToken, err := h.authService.Refresh(parts[1])
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "Token refreshed successfully", gin.H{"access_token": accessToken})
}

// GetMe returns the authenticated user, email included.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, 200, "", user.Serialize(true))
}

// Logout records the logout. Tokens are not invalidated server-side; the
// client discards them.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.LogLogout(currentUserID(c), requestMeta(c))
	Success(c, 200, "Logout successful", nil)
}
