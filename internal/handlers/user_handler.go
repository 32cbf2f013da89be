package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibro/internal/models"
	"vibro/internal/services"
)

type UserHandler struct {
	users  services.UserService
	resets services.PasswordResetService
}

func NewUserHandler(users services.UserService, resets services.PasswordResetService) *UserHandler {
	return &UserHandler{users: users, resets: resets}
}

// @Summary      Register an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      201       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	user, err := h.users.Register(req.Email, req.Password, req.DisplayName, req.Fingerprint)
	if err != nil {
		switch err {
		case services.ErrEmailTaken:
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already registered"})
		case services.ErrWeakPassword:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			log.Printf("[users][register] failed email=%q: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created, confirm your email with the code we sent",
		"user":    user,
	})
}

func (h *UserHandler) ConfirmRegistration(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Code        string `json:"code" binding:"required"`
		Fingerprint string `json:"fingerprint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email, code and fingerprint are required"})
		return
	}

	if err := h.users.ConfirmRegistration(req.Email, req.Fingerprint, req.Code); err != nil {
		if err == services.ErrConfirmFailed {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired verification code"})
			return
		}
		log.Printf("[users][confirm] failed email=%q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified"})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Malformed request body"})
		return
	}

	user, err := h.users.UpdateProfile(id, req.DisplayName, req.Bio, req.AvatarURL)
	if err != nil {
		if err == services.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		log.Printf("[users][profile] update failed id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}
	if err := h.resets.RequestReset(req.Email); err != nil {
		log.Printf("[users][reset-request] failed email=%q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	// same response whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, a reset email has been sent"})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "token and new_password are required"})
		return
	}
	if err := h.resets.ResetPassword(req.Token, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
