package page

import (
	"context"
	"encoding/json"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/validator"
)

// ScholarshipForm drives the per-user scholarship record form.
type ScholarshipForm struct {
	form *resource.Singleton[model.ScholarshipStudent]
}

// NewScholarshipForm creates an unloaded form controller.
func NewScholarshipForm(api *apiclient.Client, n Notifier, opts ...resource.ListOption) *ScholarshipForm {
	return &ScholarshipForm{form: resource.NewSingleton(api, resource.ScholarshipStudents, n, opts...)}
}

// Load fetches the record and reports whether the form creates or edits.
func (f *ScholarshipForm) Load(ctx context.Context) (View, error) {
	mode, current, err := f.form.Load(ctx)
	if err != nil {
		return View{Items: []model.ScholarshipStudent{}, Mode: mode.String()}, err
	}
	return f.view(mode, current), nil
}

// Snapshot returns the current state without a request.
func (f *ScholarshipForm) Snapshot() View {
	current, _ := f.form.Current()
	return f.view(f.form.Mode(), current)
}

func (f *ScholarshipForm) view(mode resource.Mode, current model.ScholarshipStudent) View {
	v := View{Items: f.form.List().Items(), Mode: mode.String()}
	if mode == resource.ModeEdit {
		v.Current = current
	}
	return v
}

// Save validates body and creates or updates the record depending on the
// mode.
func (f *ScholarshipForm) Save(ctx context.Context, body json.RawMessage) (model.ScholarshipStudent, resource.Mode, error) {
	var draft model.ScholarshipStudent
	if err := json.Unmarshal(body, &draft); err != nil {
		return draft, f.form.Mode(), invalid(map[string]string{"detail": err.Error()})
	}
	if err := invalid(validator.Struct(draft)); err != nil {
		return draft, f.form.Mode(), err
	}
	draft.ID = ""
	return f.form.Save(ctx, draft)
}

// Create refuses to add a second record.
func (f *ScholarshipForm) Create(ctx context.Context, draft model.ScholarshipStudent) (model.ScholarshipStudent, error) {
	return f.form.Create(ctx, draft)
}

// Close unmounts the form.
func (f *ScholarshipForm) Close() {
	f.form.Close()
}
