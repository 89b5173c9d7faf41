package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/mawahib/portal/internal/model"
)

// ErrIncompleteLogin is returned when a 2xx login answer lacks the token or
// the user.
var ErrIncompleteLogin = errors.New("login response is missing token or user")

// ────────────────────────────────────────────────────────────────────────────
// Auth
// ────────────────────────────────────────────────────────────────────────────

// Login exchanges credentials for a token and the user record.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/login", RequestOptions{Body: req}, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Token) == "" || resp.User == nil {
		return nil, &Error{Kind: KindMalformed, Method: http.MethodPost, Path: "/auth/login", Err: ErrIncompleteLogin}
	}
	return &resp, nil
}

// Signup registers a new account. New accounts start with the User role.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) error {
	return c.Do(ctx, http.MethodPost, "/auth/signup", RequestOptions{Body: req}, nil)
}

// ForgotPassword asks the API to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := model.ForgotPasswordRequest{Email: email}
	return c.Do(ctx, http.MethodPost, "/auth/forgot-Password", RequestOptions{Body: body}, nil)
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"newPassword": newPassword}
	return c.Do(ctx, http.MethodPost, "/auth/reset-password/"+url.PathEscape(token), RequestOptions{Body: body}, nil)
}

// ────────────────────────────────────────────────────────────────────────────
// Profile
// ────────────────────────────────────────────────────────────────────────────

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.Get(ctx, "/user/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile saves the editable profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.User, error) {
	var resp struct {
		User *model.User `json:"user"`
	}
	if err := c.Do(ctx, http.MethodPut, "/user/update-profile", RequestOptions{Body: upd}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &Error{Kind: KindMalformed, Method: http.MethodPut, Path: "/user/update-profile", Err: model.ErrMissingID}
	}
	return resp.User, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Admin
// ────────────────────────────────────────────────────────────────────────────

// Users lists every account.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var resp struct {
		Users []model.User `json:"users"`
	}
	if err := c.Get(ctx, "/user/users", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		return []model.User{}, nil
	}
	return resp.Users, nil
}

// UpdateUserRole changes the role of the user with the given id.
func (c *Client) UpdateUserRole(ctx context.Context, userID string, role model.Role) error {
	body := map[string]string{"role": string(role)}
	path := "/user/users/" + url.PathEscape(userID) + "/role"
	return c.Do(ctx, http.MethodPut, path, RequestOptions{Body: body}, nil)
}

// Summary returns per-user statistics for one dashboard category.
func (c *Client) Summary(ctx context.Context, category model.SummaryCategory) ([]model.UserSummary, error) {
	var resp struct {
		Result []model.UserSummary `json:"result"`
	}
	q := url.Values{"category": {string(category)}}
	if err := c.Get(ctx, "/user/summary", q, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return []model.UserSummary{}, nil
	}
	return resp.Result, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Student reports
// ────────────────────────────────────────────────────────────────────────────

// AllReports returns every student report visible to the caller, with
// references populated.
func (c *Client) AllReports(ctx context.Context) ([]model.StudentReport, error) {
	var resp struct {
		StudentReports []model.StudentReport `json:"studentReports"`
	}
	if err := c.Get(ctx, "/allReports", nil, &resp); err != nil {
		return nil, err
	}
	if resp.StudentReports == nil {
		return []model.StudentReport{}, nil
	}
	return resp.StudentReports, nil
}

// ReportOptions returns the records a report may reference.
func (c *Client) ReportOptions(ctx context.Context) (*model.ReportOptions, error) {
	var opts model.ReportOptions
	if err := c.Get(ctx, "/studentReports/options", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
