package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/session"
)

// Registry names of the pages that are not plain lists.
const (
	ScholarshipPage = "scholarship"
	ReportFormPage  = "report-form"
)

// ErrPageNotMounted is returned when unmounting a page the session never
// opened.
var ErrPageNotMounted = errors.New("page is not mounted")

// PageService mounts page controllers per session. Each controller talks to
// the API with the token of the session that mounted it and reports through
// that session's notifications.
type PageService struct {
	api      *apiclient.Client
	registry *page.Registry
	hub      *notify.Hub
	log      zerolog.Logger
}

// NewPageService creates a new PageService.
func NewPageService(api *apiclient.Client, registry *page.Registry, hub *notify.Hub, log zerolog.Logger) *PageService {
	return &PageService{
		api:      api,
		registry: registry,
		hub:      hub,
		log:      log,
	}
}

func (s *PageService) deps(h *session.Handle) (*apiclient.Client, page.Notifier, resource.ListOption) {
	return s.api.WithTokenSource(h), s.hub.For(h.ID()), resource.WithLogger(s.log)
}

// Mount replaces the session's controller of def with a fresh one and loads
// it. A load failure still leaves the page mounted with an empty list.
func (s *PageService) Mount(ctx context.Context, h *session.Handle, def page.Definition) (page.View, error) {
	api, n, opt := s.deps(h)
	c := def.New(api, n, opt)
	s.registry.Mount(h.ID(), def.Name, c)
	return c.Load(ctx)
}

// Controller returns the mounted controller of def, mounting and loading one
// first when the session has none.
func (s *PageService) Controller(ctx context.Context, h *session.Handle, def page.Definition) (page.Controller, error) {
	return ensure(ctx, s, h, def.Name,
		func(api *apiclient.Client, n page.Notifier, opt resource.ListOption) page.Controller {
			return def.New(api, n, opt)
		},
		func(ctx context.Context, c page.Controller) error {
			_, err := c.Load(ctx)
			return err
		})
}

// Unmount closes the session's controller of name.
func (s *PageService) Unmount(h *session.Handle, name string) error {
	if _, ok := s.registry.Get(h.ID(), name); !ok {
		return ErrPageNotMounted
	}
	s.registry.Unmount(h.ID(), name)
	return nil
}

// MountScholarship mounts and loads the scholarship form.
func (s *PageService) MountScholarship(ctx context.Context, h *session.Handle) (page.View, error) {
	api, n, opt := s.deps(h)
	f := page.NewScholarshipForm(api, n, opt)
	s.registry.Mount(h.ID(), ScholarshipPage, f)
	return f.Load(ctx)
}

// Scholarship returns the mounted scholarship form, loading it on first use.
func (s *PageService) Scholarship(ctx context.Context, h *session.Handle) (*page.ScholarshipForm, error) {
	return ensure(ctx, s, h, ScholarshipPage,
		func(api *apiclient.Client, n page.Notifier, opt resource.ListOption) *page.ScholarshipForm {
			return page.NewScholarshipForm(api, n, opt)
		},
		func(ctx context.Context, f *page.ScholarshipForm) error {
			_, err := f.Load(ctx)
			return err
		})
}

// MountReportForm mounts and loads the student report page.
func (s *PageService) MountReportForm(ctx context.Context, h *session.Handle) (page.ReportFormView, error) {
	api, n, opt := s.deps(h)
	f := page.NewReportForm(api, n, opt)
	s.registry.Mount(h.ID(), ReportFormPage, f)
	return f.Load(ctx)
}

// ReportForm returns the mounted report page, loading it on first use.
func (s *PageService) ReportForm(ctx context.Context, h *session.Handle) (*page.ReportForm, error) {
	return ensure(ctx, s, h, ReportFormPage,
		func(api *apiclient.Client, n page.Notifier, opt resource.ListOption) *page.ReportForm {
			return page.NewReportForm(api, n, opt)
		},
		func(ctx context.Context, f *page.ReportForm) error {
			_, err := f.Load(ctx)
			return err
		})
}

// ensure returns the controller mounted under name when it has type C, or
// builds, mounts and loads a new one. The new controller stays mounted even
// if its load fails.
func ensure[C page.Closer](
	ctx context.Context,
	s *PageService,
	h *session.Handle,
	name string,
	build func(*apiclient.Client, page.Notifier, resource.ListOption) C,
	load func(context.Context, C) error,
) (C, error) {
	if mounted, ok := s.registry.Get(h.ID(), name); ok {
		if c, ok := mounted.(C); ok {
			return c, nil
		}
	}

	c := build(s.deps(h))
	s.registry.Mount(h.ID(), name, c)
	if err := load(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}
