package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/navigation"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/auth/login
// Exchanges email + password for an API token and stores it in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	sess := middleware.GetSession(c)
	user, err := h.authService.Login(c.Request.Context(), sess, req)
	if err != nil {
		if status := apiclient.StatusCode(err); status == http.StatusBadRequest || status == http.StatusUnauthorized {
			response.FailWithMessage(c, http.StatusUnauthorized, response.ErrInvalidCredentials, apiclient.UserMessage(err, ""))
			return
		}
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": user,
		"view": navigation.Dashboard(user.Role),
	})
}

// Signup godoc
// POST /api/auth/signup
// Registers a new account. The account waits for an admin to assign a role.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.authService.Signup(c.Request.Context(), req); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"view": navigation.ViewLogin})
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Asks the API to email a password reset link.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If an account exists for that email, a reset link has been sent.",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password/:token
// Sets a new password using the token from the reset email.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), token, req); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": navigation.ViewLogin})
}

// Logout godoc
// POST /api/auth/logout
// Closes every mounted page of the session and clears its credentials.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetSession(c)); err != nil {
		h.log.Error().Err(err).Msg("Logout failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrSessionUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"view": navigation.ViewLogin})
}

// Me godoc
// GET /api/auth/me
// Returns the session's user, or authenticated=false.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !sess.IsAuthenticated() {
		response.Success(c, http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user := sess.User()
	response.Success(c, http.StatusOK, gin.H{
		"authenticated": true,
		"user":          user,
		"dashboard":     navigation.Dashboard(user.Role),
	})
}
