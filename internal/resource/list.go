package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
)

var (
	// ErrStale is returned by a Load whose result was superseded by a newer
	// Load or a successful mutation. The local list was not touched.
	ErrStale = errors.New("resource: response superseded")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("resource: controller closed")
	// ErrNoRecord is returned when a create response carries no record.
	ErrNoRecord = errors.New("resource: response carries no record")
)

// List is the controller of one mounted collection. It is safe for
// concurrent use; network calls are made without holding the lock.
type List[R Record] struct {
	api    *apiclient.Client
	ep     Endpoint[R]
	notify Notifier
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	items  []R
	gen    uint64
	closed bool
}

// ListOption configures a List.
type ListOption func(*listOptions)

type listOptions struct {
	log zerolog.Logger
}

// WithLogger sets the controller logger.
func WithLogger(log zerolog.Logger) ListOption {
	return func(o *listOptions) { o.log = log }
}

// NewList creates an empty controller for ep. api must already carry the
// session token source.
func NewList[R Record](api *apiclient.Client, ep Endpoint[R], notify Notifier, opts ...ListOption) *List[R] {
	o := listOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &List[R]{
		api:    api,
		ep:     ep,
		notify: notify,
		log:    o.log.With().Str("component", "resource").Str("resource", ep.Name).Logger(),
		ctx:    ctx,
		cancel: cancel,
		items:  []R{},
	}
}

// Endpoint returns the collection descriptor.
func (l *List[R]) Endpoint() Endpoint[R] {
	return l.ep
}

// requestContext derives a context that is cancelled by either the caller or
// Close.
func (l *List[R]) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Load replaces the local list with the server's collection in server order.
// On failure the list is left empty and one error notification is raised.
func (l *List[R]) Load(ctx context.Context) ([]R, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	reqCtx, done := l.requestContext(ctx)
	defer done()

	path := l.ep.listPath()
	var items []R
	raw, err := l.api.Request(reqCtx, http.MethodGet, path, apiclient.RequestOptions{})
	if err == nil {
		if items, err = l.ep.decodeList(raw); err != nil {
			err = malformed(http.MethodGet, path, err)
		}
	}

	l.mu.Lock()
	switch {
	case l.closed:
		l.mu.Unlock()
		return nil, ErrClosed
	case gen != l.gen:
		l.mu.Unlock()
		return nil, ErrStale
	case apiclient.IsCanceled(err):
		l.mu.Unlock()
		return nil, err
	case err != nil:
		l.items = []R{}
		l.mu.Unlock()
		l.log.Warn().Err(err).Msg("load failed")
		l.notify.Error(l.ep.Name, apiclient.UserMessage(err, fmt.Sprintf("Failed to load %ss", lower(l.ep.Name))))
		return nil, err
	}
	l.items = items
	out := l.snapshotLocked()
	l.mu.Unlock()
	return out, nil
}

// Create sends draft and appends the record returned by the server.
func (l *List[R]) Create(ctx context.Context, draft R, files ...apiclient.File) (R, error) {
	var zero R
	if err := l.checkOpen(); err != nil {
		return zero, err
	}
	reqCtx, done := l.requestContext(ctx)
	defer done()

	opts := apiclient.RequestOptions{Body: draft, Multipart: l.ep.Multipart, Files: files}
	raw, err := l.api.Request(reqCtx, http.MethodPost, l.ep.Path, opts)
	var rec R
	if err == nil {
		var ok bool
		rec, ok, err = l.ep.decodeItem(raw)
		if err == nil && !ok {
			err = ErrNoRecord
		}
		if err != nil {
			err = malformed(http.MethodPost, l.ep.Path, err)
		}
	}
	if err != nil {
		return zero, l.fail(err, "Failed to create %s")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return zero, ErrClosed
	}
	l.items = append(l.items, rec)
	l.gen++
	l.mu.Unlock()

	l.notify.Success(l.ep.Name, capitalize(l.ep.Name)+" created successfully")
	return rec, nil
}

// Update sends patch for the record id and replaces the local record with
// the server's version, appending it when it is not in the list. When the
// server answers without a record, patch is applied to the local copy.
func (l *List[R]) Update(ctx context.Context, id string, patch Patch, files ...apiclient.File) (R, error) {
	var zero R
	if err := l.checkOpen(); err != nil {
		return zero, err
	}
	reqCtx, done := l.requestContext(ctx)
	defer done()

	path := l.ep.itemPath(id)
	opts := apiclient.RequestOptions{Body: patch, Multipart: l.ep.Multipart, Files: files}
	raw, err := l.api.Request(reqCtx, http.MethodPut, path, opts)
	var (
		rec R
		ok  bool
	)
	if err == nil {
		if rec, ok, err = l.ep.decodeItem(raw); err != nil {
			err = malformed(http.MethodPut, path, err)
		}
	}
	if err != nil {
		return zero, l.fail(err, "Failed to update %s")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return zero, ErrClosed
	}
	idx := l.indexLocked(id)
	if !ok {
		if idx < 0 {
			l.mu.Unlock()
			return zero, l.fail(malformed(http.MethodPut, path, ErrNoRecord), "Failed to update %s")
		}
		merged, mergeErr := merge(l.items[idx], patch)
		if mergeErr != nil {
			l.mu.Unlock()
			return zero, l.fail(malformed(http.MethodPut, path, mergeErr), "Failed to update %s")
		}
		rec = merged
	}
	if idx >= 0 {
		l.items[idx] = rec
	} else {
		l.items = append(l.items, rec)
	}
	l.gen++
	l.mu.Unlock()

	l.notify.Success(l.ep.Name, capitalize(l.ep.Name)+" updated successfully")
	return rec, nil
}

// Remove deletes the record id on the server and then locally.
func (l *List[R]) Remove(ctx context.Context, id string) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	reqCtx, done := l.requestContext(ctx)
	defer done()

	if _, err := l.api.Request(reqCtx, http.MethodDelete, l.ep.itemPath(id), apiclient.RequestOptions{}); err != nil {
		return l.fail(err, "Failed to delete %s")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if idx := l.indexLocked(id); idx >= 0 {
		l.items = append(l.items[:idx:idx], l.items[idx+1:]...)
	}
	l.gen++
	l.mu.Unlock()

	l.notify.Success(l.ep.Name, capitalize(l.ep.Name)+" deleted successfully")
	return nil
}

// Close unmounts the controller. In-flight requests are cancelled and no
// later response changes the list or raises a notification.
func (l *List[R]) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

// Closed reports whether Close was called.
func (l *List[R]) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Items returns a copy of the local list.
func (l *List[R]) Items() []R {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of local records.
func (l *List[R]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Find returns the local record with the given id.
func (l *List[R]) Find(id string) (R, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx := l.indexLocked(id); idx >= 0 {
		return l.items[idx], true
	}
	var zero R
	return zero, false
}

func (l *List[R]) checkOpen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	return nil
}

// fail reports a failed mutation. Cancellations and failures after Close are
// returned silently.
func (l *List[R]) fail(err error, format string) error {
	if l.Closed() {
		return ErrClosed
	}
	if apiclient.IsCanceled(err) {
		return err
	}
	l.log.Warn().Err(err).Msg("mutation failed")
	l.notify.Error(l.ep.Name, apiclient.UserMessage(err, fmt.Sprintf(format, lower(l.ep.Name))))
	return err
}

func (l *List[R]) indexLocked(id string) int {
	for i, item := range l.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

func (l *List[R]) snapshotLocked() []R {
	out := make([]R, len(l.items))
	copy(out, l.items)
	return out
}
