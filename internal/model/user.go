package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMissingID is returned when a decoded record carries no identifier.
var ErrMissingID = errors.New("record has no _id")

// User is the account record returned by the API on login and profile reads.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" and normalises the role.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		AltID string `json:"id"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	if u.ID == "" {
		u.ID = raw.AltID
	}
	u.Role = ParseRole(raw.Role)
	return nil
}

// RecordID implements the resource record contract.
func (u User) RecordID() string { return u.ID }

// Validate checks the fields the portal relies on.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// Session is the authenticated state of one browser. User is non-nil iff
// Token is non-empty.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// IsAuthenticated reports whether the session carries credentials.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Role returns the session user's role, or RoleUnknown when signed out.
func (s Session) Role() Role {
	if s.User == nil {
		return RoleUnknown
	}
	return s.User.Role
}

// LoginRequest is the payload for portal sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,portal_email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is the body the API returns on a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignupRequest is the payload for account registration.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,portal_email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// ForgotPasswordRequest asks the API to send a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,portal_email,max=255"`
}

// ResetPasswordRequest carries the new password for a reset token.
type ResetPasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// UpdateRoleRequest changes another user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin Employee User 'Scholarship Student' 'Institute Student'"`
}
