package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/resource"
)

// ErrUnknownKind is returned for an inline item kind the form does not offer.
var ErrUnknownKind = errors.New("unknown report item kind")

// OptionKinds lists the records a report can reference and create inline.
var OptionKinds = []string{"course", "note", "difficulty", "userAchievement", "event", "certificate"}

// ReportForm is the student report page: the report list plus the
// selectable records, which can be extended inline.
type ReportForm struct {
	api     *apiclient.Client
	notify  Notifier
	reports *listPage[model.StudentReport]
	opts    []resource.ListOption

	mu      sync.Mutex
	options model.ReportOptions
}

// ReportFormView is the JSON state of the report page.
type ReportFormView struct {
	Reports []model.StudentReport `json:"reports"`
	Options model.ReportOptions   `json:"options"`
}

// NewReportForm creates an unloaded report page.
func NewReportForm(api *apiclient.Client, n Notifier, opts ...resource.ListOption) *ReportForm {
	return &ReportForm{
		api:     api,
		notify:  n,
		reports: newListPage(api, studentReportsConfig, n, opts...),
		opts:    opts,
	}
}

// Load fetches the options and the existing reports concurrently. A failure
// of either is reported once and returned; the other half is kept.
func (f *ReportForm) Load(ctx context.Context) (ReportFormView, error) {
	var g errgroup.Group

	var opts *model.ReportOptions
	g.Go(func() error {
		var err error
		if opts, err = f.api.ReportOptions(ctx); err != nil {
			if !apiclient.IsCanceled(err) {
				f.notify.Error("report options", apiclient.UserMessage(err, "Failed to load form options"))
			}
			return err
		}
		return nil
	})
	g.Go(func() error {
		_, err := f.reports.list.Load(ctx)
		if errors.Is(err, resource.ErrStale) {
			return nil
		}
		return err
	})
	err := g.Wait()

	f.mu.Lock()
	if opts != nil {
		f.options = normalizeOptions(*opts)
	}
	f.mu.Unlock()
	return f.Snapshot(), err
}

// Snapshot returns the current state without a request.
func (f *ReportForm) Snapshot() ReportFormView {
	f.mu.Lock()
	options := normalizeOptions(f.options)
	f.mu.Unlock()
	return ReportFormView{Reports: f.reports.list.Items(), Options: options}
}

// Submit creates a report.
func (f *ReportForm) Submit(ctx context.Context, body json.RawMessage) (any, error) {
	return f.reports.Create(ctx, body, nil)
}

// Edit updates an existing report.
func (f *ReportForm) Edit(ctx context.Context, id string, body json.RawMessage) (any, error) {
	return f.reports.Update(ctx, id, body, nil)
}

// AddOption creates a record of the given kind and appends it to the options
// so it can be selected right away.
func (f *ReportForm) AddOption(ctx context.Context, kind string, body json.RawMessage) (any, error) {
	switch kind {
	case "course":
		return addOption(ctx, f, resource.Courses, body, func(o *model.ReportOptions, r model.Course) { o.Courses = append(o.Courses, r) })
	case "note":
		return addOption(ctx, f, resource.Notes, body, func(o *model.ReportOptions, r model.Note) { o.Notes = append(o.Notes, r) })
	case "difficulty":
		return addOption(ctx, f, resource.Difficulties, body, func(o *model.ReportOptions, r model.Difficulty) { o.Difficulties = append(o.Difficulties, r) })
	case "userAchievement":
		return addOption(ctx, f, resource.Achievements, body, func(o *model.ReportOptions, r model.Achievement) {
			o.UserAchievements = append(o.UserAchievements, r)
		})
	case "event":
		return addOption(ctx, f, resource.Events, body, func(o *model.ReportOptions, r model.Event) { o.Events = append(o.Events, r) })
	case "certificate":
		return addOption(ctx, f, resource.Certificates, body, func(o *model.ReportOptions, r model.Certificate) {
			o.Certificates = append(o.Certificates, r)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func addOption[R resource.Record](ctx context.Context, f *ReportForm, ep resource.Endpoint[R], body json.RawMessage, add func(*model.ReportOptions, R)) (R, error) {
	var zero R
	ep.Multipart = false
	cfg := listConfig[R]{endpoint: ep, required: []string{"title"}}
	if err := invalid((&listPage[R]{cfg: cfg}).checkCreate(body)); err != nil {
		return zero, err
	}
	var draft R
	if err := json.Unmarshal(body, &draft); err != nil {
		return zero, invalid(map[string]string{"detail": err.Error()})
	}

	creator := resource.NewList(f.api, ep, f.notify, f.opts...)
	defer creator.Close()
	rec, err := creator.Create(ctx, draft)
	if err != nil {
		return zero, err
	}

	f.mu.Lock()
	add(&f.options, rec)
	f.mu.Unlock()
	return rec, nil
}

// Close unmounts the page.
func (f *ReportForm) Close() {
	f.reports.Close()
}

func normalizeOptions(o model.ReportOptions) model.ReportOptions {
	return model.ReportOptions{
		Courses:          clone(o.Courses),
		Notes:            clone(o.Notes),
		Difficulties:     clone(o.Difficulties),
		UserAchievements: clone(o.UserAchievements),
		Events:           clone(o.Events),
		Certificates:     clone(o.Certificates),
	}
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
