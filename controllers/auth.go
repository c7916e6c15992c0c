package controllers

import (
	"errors"
	"net/http"

	"faculty-management-api/config"
	"faculty-management-api/middleware"
	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      models.User `json:"user"`
	Role      string      `json:"role"`
	Message   string      `json:"message"`
}

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Login handles user authentication
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctl.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			config.Log.Info("login rejected", zap.String("email", req.Email), zap.String("client_ip", c.ClientIP()))
		}
		respondError(c, err)
		return
	}

	token, expires, err := middleware.IssueToken(*user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expires.Unix(),
		User:      *user,
		Role:      user.RoleName(),
		Message:   "Login successful",
	})
}

// GetProfile returns current user profile
func (ctl *AuthController) GetProfile(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	user, err := ctl.users.FindUser(c.Request.Context(), viewer.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "role": user.RoleName()})
}

func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	var in services.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctl.users.UpdateProfile(c.Request.Context(), viewer.UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ChangePassword handles password change
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if !bindJSON(c, &req) {
		return
	}
	viewer, ok := viewerOrAbort(c)
	if !ok {
		return
	}
	if err := ctl.users.ChangePassword(c.Request.Context(), viewer.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}
