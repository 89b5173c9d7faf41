package service

import (
	"context"
	"fmt"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/session"
)

// ProfileService reads and edits the signed-in user's profile.
type ProfileService struct {
	api *apiclient.Client
}

// NewProfileService creates a new ProfileService.
func NewProfileService(api *apiclient.Client) *ProfileService {
	return &ProfileService{api: api}
}

// Get returns the profile page payload.
func (s *ProfileService) Get(ctx context.Context, h *session.Handle) (*model.Profile, error) {
	return s.api.WithTokenSource(h).Profile(ctx)
}

// Update saves the editable fields and refreshes the session's user so the
// new name shows everywhere without signing in again.
func (s *ProfileService) Update(ctx context.Context, h *session.Handle, upd model.ProfileUpdate) (*model.User, error) {
	user, err := s.api.WithTokenSource(h).UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}

	current := h.User()
	if current != nil {
		// The API echoes the account; role changes only through an admin.
		if user.ID == "" {
			user.ID = current.ID
		}
		user.Role = current.Role
	}
	if err := h.Login(ctx, h.Token(), user); err != nil {
		return nil, fmt.Errorf("refresh session user: %w", err)
	}
	return h.User(), nil
}
