package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/session"
)

// AuthService signs browsers in and out against the scholarship API.
type AuthService struct {
	api   *apiclient.Client
	pages *page.Registry
	hub   *notify.Hub
	log   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(api *apiclient.Client, pages *page.Registry, hub *notify.Hub, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:   api,
		pages: pages,
		hub:   hub,
		log:   log.With().Str("component", "auth_service").Logger(),
	}
}

// Login exchanges credentials for a token and stores token and user in the
// session as one unit.
func (s *AuthService) Login(ctx context.Context, h *session.Handle, req model.LoginRequest) (*model.User, error) {
	res, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	// Pages mounted by a previous account must not leak into this one.
	s.pages.UnmountSession(h.ID())

	if err := h.Login(ctx, res.Token, res.User); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().
		Str("session_id", h.ID()).
		Str("user_id", res.User.ID).
		Str("role", string(res.User.Role)).
		Msg("User logged in")

	return h.User(), nil
}

// Signup registers a new account. The new account waits for a role.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) error {
	return s.api.Signup(ctx, req)
}

// ForgotPassword asks the API to send a reset link to email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.api.ForgotPassword(ctx, email)
}

// ResetPassword sets a new password for the reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req model.ResetPasswordRequest) error {
	return s.api.ResetPassword(ctx, token, req.NewPassword)
}

// Logout unmounts every page of the session and clears its credentials.
func (s *AuthService) Logout(ctx context.Context, h *session.Handle) error {
	closed := s.pages.UnmountSession(h.ID())

	if err := h.Logout(ctx); err != nil {
		return err
	}
	s.hub.Forget(h.ID())

	s.log.Info().
		Str("session_id", h.ID()).
		Int("pages_closed", closed).
		Msg("User logged out")
	return nil
}
