package handler

import (
	"context"
	"net/http"

	"blood-bank-dashboard/internal/middleware"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshCookie = "refresh_token"

type AuthService interface {
	Login(ctx context.Context, form validation.LoginForm) (*service.LoginResponse, error)
	Register(ctx context.Context, form validation.RegisterForm) (*service.LoginResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string, current *session.Session) error
	GetCurrentUser(ctx context.Context, userID string) (*service.UserResponse, error)
	ResetPassword(ctx context.Context, form validation.ResetForm) error
	UpdatePassword(ctx context.Context, userID string, form validation.UpdatePasswordForm) error
	ConfirmReset(ctx context.Context, form validation.ConfirmResetForm) error
}

type AuthHandler struct {
	authService AuthService
	cookieTTL   int
	secure      bool
	logger      *zap.Logger
}

func NewAuthHandler(authService AuthService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieTTL:   int(utils.GetRefreshTokenExpiry().Seconds()),
		secure:      secureCookies,
		logger:      logger,
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, token, maxAge, "/", "", h.secure, true)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var form validation.LoginForm
	if !bindJSON(c, &form) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to sign in")
		return
	}

	h.setRefreshCookie(c, response.RefreshToken, h.cookieTTL)
	utils.SuccessResponse(c, gin.H{
		"access_token": response.AccessToken,
		"user":         response.User,
	})
}

// Register creates a donor account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var form validation.RegisterForm
	if !bindJSON(c, &form) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to register")
		return
	}

	h.setRefreshCookie(c, response.RefreshToken, h.cookieTTL)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"access_token": response.AccessToken,
			"user":         response.User,
		},
	})
}

// Refresh generates a new access token from the refresh token cookie
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, h.logger, err, "Failed to refresh token")
		return
	}

	utils.SuccessResponse(c, gin.H{"access_token": accessToken})
}

// Logout revokes the refresh token and, for an authenticated caller, the
// access token too
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookie)

	var current *session.Session
	if s, ok := middleware.CurrentSession(c); ok {
		current = &s
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken, current); err != nil {
		respondError(c, h.logger, err, "Failed to logout")
		return
	}

	h.setRefreshCookie(c, "", -1)
	utils.MessageResponse(c, "Logged out successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var form validation.UpdatePasswordForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID(c), form); err != nil {
		respondError(c, h.logger, err, "Failed to update password")
		return
	}
	utils.MessageResponse(c, "Password updated")
}

// ResetPassword always answers the same way so callers cannot tell which
// addresses have accounts
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form validation.ResetForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), form); err != nil {
		respondError(c, h.logger, err, "Failed to start password reset")
		return
	}
	utils.MessageResponse(c, "If the address is registered, a reset link has been sent")
}

func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var form validation.ConfirmResetForm
	if !bindJSON(c, &form) {
		return
	}

	if err := h.authService.ConfirmReset(c.Request.Context(), form); err != nil {
		respondError(c, h.logger, err, "Failed to reset password")
		return
	}
	utils.MessageResponse(c, "Password has been reset")
}
