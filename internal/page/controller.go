package page

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/validator"
)

// Notifier is the session notifier pages report through.
type Notifier interface {
	resource.Notifier
	Info(resource, message string)
}

// ValidationError carries field errors that are shown inline. No request was
// sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return "invalid fields: " + strings.Join(names, ", ")
}

func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// View is the JSON state of a mounted page.
type View struct {
	Items   any    `json:"items"`
	Mode    string `json:"mode,omitempty"`
	Current any    `json:"current,omitempty"`
}

// Controller is the untyped face of a mounted list page.
type Controller interface {
	Closer
	Load(ctx context.Context) (View, error)
	Create(ctx context.Context, body json.RawMessage, files []apiclient.File) (any, error)
	Update(ctx context.Context, id string, body json.RawMessage, files []apiclient.File) (any, error)
	Remove(ctx context.Context, id string) error
	Snapshot() View
}

// listConfig holds the client-side rules of one list page.
type listConfig[R resource.Record] struct {
	endpoint resource.Endpoint[R]
	// required fields must be non-blank on create, and may not be blanked by
	// an update.
	required []string
	// form returns a struct whose binding tags validate create bodies.
	form func() any
	// allowed restricts update values per field.
	allowed map[string][]string
	// saved runs after every successful create or update.
	saved func(R, Notifier)
}

type listPage[R resource.Record] struct {
	list   *resource.List[R]
	cfg    listConfig[R]
	notify Notifier
}

func newListPage[R resource.Record](api *apiclient.Client, cfg listConfig[R], n Notifier, opts ...resource.ListOption) *listPage[R] {
	return &listPage[R]{
		list:   resource.NewList(api, cfg.endpoint, n, opts...),
		cfg:    cfg,
		notify: n,
	}
}

func (p *listPage[R]) Load(ctx context.Context) (View, error) {
	items, err := p.list.Load(ctx)
	if err != nil {
		return View{Items: p.list.Items()}, err
	}
	return View{Items: items}, nil
}

func (p *listPage[R]) Create(ctx context.Context, body json.RawMessage, files []apiclient.File) (any, error) {
	if err := invalid(p.checkCreate(body)); err != nil {
		return nil, err
	}
	var draft R
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, invalid(map[string]string{"detail": err.Error()})
	}
	rec, err := p.list.Create(ctx, draft, files...)
	if err != nil {
		return nil, err
	}
	if p.cfg.saved != nil {
		p.cfg.saved(rec, p.notify)
	}
	return rec, nil
}

func (p *listPage[R]) Update(ctx context.Context, id string, body json.RawMessage, files []apiclient.File) (any, error) {
	var patch resource.Patch
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, invalid(map[string]string{"detail": err.Error()})
	}
	delete(patch, "_id")
	if err := invalid(p.checkPatch(patch)); err != nil {
		return nil, err
	}
	rec, err := p.list.Update(ctx, id, patch, files...)
	if err != nil {
		return nil, err
	}
	if p.cfg.saved != nil {
		p.cfg.saved(rec, p.notify)
	}
	return rec, nil
}

func (p *listPage[R]) Remove(ctx context.Context, id string) error {
	return p.list.Remove(ctx, id)
}

func (p *listPage[R]) Snapshot() View {
	return View{Items: p.list.Items()}
}

func (p *listPage[R]) Close() {
	p.list.Close()
}

func (p *listPage[R]) checkCreate(body json.RawMessage) map[string]string {
	fields := map[string]string{}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return map[string]string{"detail": "request body must be a JSON object"}
	}
	values := make(map[string]string, len(p.cfg.required))
	for _, name := range p.cfg.required {
		values[name] = stringValue(raw[name])
	}
	for k, v := range validator.ValidateRequired(values) {
		fields[k] = v
	}
	if p.cfg.form != nil {
		form := p.cfg.form()
		if err := json.Unmarshal(body, form); err != nil {
			fields["detail"] = err.Error()
		} else {
			for k, v := range validator.Struct(form) {
				if _, seen := fields[k]; !seen {
					fields[k] = v
				}
			}
		}
	}
	return fields
}

func (p *listPage[R]) checkPatch(patch resource.Patch) map[string]string {
	fields := map[string]string{}
	values := map[string]string{}
	for _, name := range p.cfg.required {
		if v, ok := patch[name]; ok {
			values[name] = stringValue(v)
		}
	}
	for k, v := range validator.ValidateRequired(values) {
		fields[k] = v
	}
	for name, allowed := range p.cfg.allowed {
		v, ok := patch[name]
		if !ok {
			continue
		}
		if !contains(allowed, stringValue(v)) {
			fields[name] = fmt.Sprintf("%s must be one of [%s]", name, strings.Join(allowed, " "))
		}
	}
	return fields
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
