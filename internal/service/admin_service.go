package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/session"
)

// ErrUnknownRole is returned when a role change names no recognised role.
var ErrUnknownRole = errors.New("unknown role")

// AdminService backs the staff dashboards and user management.
type AdminService struct {
	api *apiclient.Client
	log zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(api *apiclient.Client, log zerolog.Logger) *AdminService {
	return &AdminService{
		api: api,
		log: log.With().Str("component", "admin_service").Logger(),
	}
}

// SummaryRow is one dashboard row: the user and the count for the selected
// category.
type SummaryRow struct {
	model.UserSummary
	Count int `json:"count"`
}

// Summary lists the per-user statistics of category.
func (s *AdminService) Summary(ctx context.Context, h *session.Handle, category model.SummaryCategory) ([]SummaryRow, error) {
	rows, err := s.api.WithTokenSource(h).Summary(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryRow, len(rows))
	for i, r := range rows {
		out[i] = SummaryRow{UserSummary: r, Count: r.Count(category)}
	}
	return out, nil
}

// CategoryTotal is the dashboard tile of one category.
type CategoryTotal struct {
	Category model.SummaryCategory `json:"category"`
	Title    string                `json:"title"`
	Total    int                   `json:"total"`
}

// Overview loads every summary category concurrently and totals them. The
// first failure cancels the remaining requests.
func (s *AdminService) Overview(ctx context.Context, h *session.Handle) ([]CategoryTotal, error) {
	api := s.api.WithTokenSource(h)
	g, gctx := errgroup.WithContext(ctx)

	totals := make([]CategoryTotal, len(model.SummaryCategories))
	for i, c := range model.SummaryCategories {
		totals[i] = CategoryTotal{Category: c.Value, Title: c.Name}
		g.Go(func() error {
			rows, err := api.Summary(gctx, c.Value)
			if err != nil {
				return err
			}
			total := len(rows)
			if c.Value != model.CategoryUsers {
				total = 0
				for _, r := range rows {
					total += r.Count(c.Value)
				}
			}
			totals[i].Total = total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}

// Users lists every account, optionally only those holding role.
func (s *AdminService) Users(ctx context.Context, h *session.Handle, role model.Role) ([]model.User, error) {
	users, err := s.api.WithTokenSource(h).Users(ctx)
	if err != nil {
		return nil, err
	}
	if role == model.RoleUnknown {
		return users, nil
	}
	filtered := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// UpdateRole changes a user's role and returns the refreshed user list.
func (s *AdminService) UpdateRole(ctx context.Context, h *session.Handle, userID string, role model.Role) ([]model.User, error) {
	if !role.Known() {
		return nil, ErrUnknownRole
	}
	api := s.api.WithTokenSource(h)
	if err := api.UpdateUserRole(ctx, userID, role); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("role", string(role)).
		Str("by", h.User().ID).
		Msg("User role updated")

	return api.Users(ctx)
}
