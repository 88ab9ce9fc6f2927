package handlers

import (
	"net/http"

	"hotelbooking/middleware"
	"hotelbooking/models"
	"hotelbooking/services/user"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the current user.
type AuthHandler struct {
	UserService user.UserService
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.UserService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.GetLogger().Info("Login failed", zap.String("email", req.Email))
		respondError(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler handles POST /api/auth/logout.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.UserService.Logout(c.Request.Context(), c.GetString(middleware.CtxTokenHash)); err != nil {
		respondError(c, "Logout failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeHandler handles GET /api/auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	u, err := h.UserService.GetUserByID(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		respondError(c, "User not found", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfileHandler handles PUT /api/users/profile.
func (h *AuthHandler) UpdateProfileHandler(c *gin.Context) {
	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), upd)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": u})
}
