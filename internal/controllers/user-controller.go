package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/config"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

const refreshCookieName = "refreshToken"

// UserController handles HTTP requests related to user accounts
type UserController interface {
	Register(c *gin.Context)
	VerifyEmail(c *gin.Context)
	Login(c *gin.Context)
	RefreshToken(c *gin.Context)
	Logout(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type userController struct {
	service services.UserService
	cfg     *config.Config
}

// NewUserController creates a new instance of UserController
func NewUserController(service services.UserService, cfg *config.Config) UserController {
	return &userController{service: service, cfg: cfg}
}

// Register godoc
// @Summary Register a new user
// @Description Register an account and send a verification email
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.RegisterInput true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/users/register [post]
func (c *userController) Register(ctx *gin.Context) {
	var input models.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondValidationError(ctx, err)
		return
	}

	user, err := c.service.Register(&input)
	if err != nil {
		respondServiceError(ctx, err, "Registration failed")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    user,
	})
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Tags users
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/users/verify-email [get]
func (c *userController) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")
	if err := c.service.VerifyEmail(token); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid or expired verification token", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully",
	})
}

// Login godoc
// @Summary Log in
// @Description Issue an access token and rotate the refresh credential
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body object{email=string,password=string} true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/users/login [post]
func (c *userController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Email and password are required", err)
		return
	}

	result, err := c.service.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err, "Login failed")
		return
	}

	ctx.SetCookie(refreshCookieName, result.RefreshToken,
		int(c.cfg.RefreshTokenTTL.Seconds()), "/", "", c.cfg.IsProduction(), true)

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": result.AccessToken,
		"user": gin.H{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
			"role":  result.User.Role,
		},
	})
}

// RefreshToken godoc
// @Summary Refresh the access token
// @Description Mint a new access token from the stored refresh credential
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/token/refresh [get]
func (c *userController) RefreshToken(ctx *gin.Context) {
	refreshToken, err := ctx.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		respondError(ctx, http.StatusUnauthorized, "Refresh token required", nil)
		return
	}

	accessToken, err := c.service.Refresh(refreshToken)
	if err != nil {
		respondError(ctx, http.StatusForbidden, "Invalid refresh token", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": accessToken,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clear the stored refresh credential
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/users/logout [post]
func (c *userController) Logout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := c.service.Logout(userID); err != nil {
		respondServiceError(ctx, err, "Logout failed")
		return
	}

	ctx.SetCookie(refreshCookieName, "", -1, "/", "", c.cfg.IsProduction(), true)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Send a reset link when the address is registered; always 200
// @Tags users
// @Accept json
// @Produce json
// @Param body body object{email=string} true "Email"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/forgot-password [post]
func (c *userController) ForgotPassword(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Email is required", err)
		return
	}

	if err := c.service.ForgotPassword(req.Email); err != nil {
		respondServiceError(ctx, err, "Password reset failed")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset link will be sent",
	})
}

// ResetPassword godoc
// @Summary Reset the password
// @Tags users
// @Accept json
// @Produce json
// @Param body body object{token=string,newPassword=string} true "Reset payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/users/reset-password [post]
func (c *userController) ResetPassword(ctx *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Token and new password are required", err)
		return
	}

	if err := c.service.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/profile [get]
func (c *userController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, "Unauthorized, no user found", nil)
		return
	}

	user, err := c.service.GetUserByID(userID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body object{name=string,phone=string} true "Profile payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/profile [put]
func (c *userController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, "Name and phone are required", err)
		return
	}

	user, err := c.service.UpdateProfile(userID, req.Name, req.Phone)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteUser godoc
// @Summary Delete a user (admin only)
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/{id} [delete]
func (c *userController) DeleteUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	if err := c.service.DeleteUser(userID); err != nil {
		respondServiceError(ctx, err, "Failed to delete user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
