package resource

import (
	"context"
	"errors"

	"github.com/mawahib/portal/internal/apiclient"
)

// ErrSingletonExists is returned when creating a second record of a
// collection that holds at most one per user.
var ErrSingletonExists = errors.New("resource: record already exists")

// Mode is the state of a single-record form.
type Mode int

const (
	// ModeCreate means the collection is empty and the form starts blank.
	ModeCreate Mode = iota
	// ModeEdit means the form is pre-filled from the existing record.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Singleton drives a form backed by a collection that holds at most one
// record per user.
type Singleton[R Record] struct {
	list *List[R]
}

// NewSingleton creates a Singleton controller for ep.
func NewSingleton[R Record](api *apiclient.Client, ep Endpoint[R], notify Notifier, opts ...ListOption) *Singleton[R] {
	return &Singleton[R]{list: NewList(api, ep, notify, opts...)}
}

// Load fetches the collection and reports the resulting mode together with
// the record to pre-fill the form with.
func (s *Singleton[R]) Load(ctx context.Context) (Mode, R, error) {
	var zero R
	items, err := s.list.Load(ctx)
	if err != nil {
		return ModeCreate, zero, err
	}
	if len(items) == 0 {
		return ModeCreate, zero, nil
	}
	return ModeEdit, items[0], nil
}

// Mode returns the current form mode.
func (s *Singleton[R]) Mode() Mode {
	if s.list.Len() == 0 {
		return ModeCreate
	}
	return ModeEdit
}

// Current returns the existing record, if any.
func (s *Singleton[R]) Current() (R, bool) {
	items := s.list.Items()
	if len(items) == 0 {
		var zero R
		return zero, false
	}
	return items[0], true
}

// Create adds the record. It is refused once a record exists.
func (s *Singleton[R]) Create(ctx context.Context, draft R, files ...apiclient.File) (R, error) {
	if _, exists := s.Current(); exists {
		var zero R
		s.list.notify.Error(s.list.ep.Name, capitalize(s.list.ep.Name)+" already exists")
		return zero, ErrSingletonExists
	}
	return s.list.Create(ctx, draft, files...)
}

// Save creates the record in create mode and updates the existing one in
// edit mode.
func (s *Singleton[R]) Save(ctx context.Context, draft R, files ...apiclient.File) (R, Mode, error) {
	current, exists := s.Current()
	if !exists {
		rec, err := s.list.Create(ctx, draft, files...)
		return rec, ModeCreate, err
	}
	patch, err := PatchFrom(draft)
	if err != nil {
		var zero R
		return zero, ModeEdit, err
	}
	rec, err := s.list.Update(ctx, current.RecordID(), patch, files...)
	return rec, ModeEdit, err
}

// List exposes the underlying controller.
func (s *Singleton[R]) List() *List[R] {
	return s.list
}

// Close unmounts the form.
func (s *Singleton[R]) Close() {
	s.list.Close()
}
