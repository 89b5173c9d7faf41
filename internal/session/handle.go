package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mawahib/portal/internal/model"
)

// Handle is the session of one browser. Token and user are always set and
// cleared together; reads never touch the store.
type Handle struct {
	mu    sync.RWMutex
	id    string
	store Store
	state model.Session
}

// NewID returns a fresh opaque session id.
func NewID() string {
	return uuid.NewString()
}

// Open rehydrates the session stored under id. A missing or inconsistent
// record yields a signed-out handle.
func Open(ctx context.Context, store Store, id string) (*Handle, error) {
	h := &Handle{id: id, store: store}

	sess, err := store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return h, nil
	case err != nil:
		return h, fmt.Errorf("load session: %w", err)
	}

	if !sess.IsAuthenticated() {
		_ = store.Delete(ctx, id)
		return h, nil
	}
	h.state = sess
	return h, nil
}

// ID returns the portal session id.
func (h *Handle) ID() string {
	return h.id
}

// Login stores token and user as one unit. The in-memory state changes only
// if the store accepted the session.
func (h *Handle) Login(ctx context.Context, token string, user *model.User) error {
	if strings.TrimSpace(token) == "" || user == nil {
		return ErrIncompleteSession
	}
	u := *user
	next := model.Session{Token: token, User: &u}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Save(ctx, h.id, next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	h.state = next
	return nil
}

// Logout clears token and user together.
func (h *Handle) Logout(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Delete(ctx, h.id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	h.state = model.Session{}
	return nil
}

// Token returns the API token, or "" when signed out.
func (h *Handle) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Token
}

// User returns a copy of the signed-in user, or nil when signed out.
func (h *Handle) User() *model.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state.User == nil {
		return nil
	}
	u := *h.state.User
	return &u
}

// IsAuthenticated reports whether the handle holds credentials.
func (h *Handle) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.IsAuthenticated()
}

// Role returns the signed-in user's role.
func (h *Handle) Role() model.Role {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Role()
}

type ctxKey struct{}

// WithHandle returns a context carrying h.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the handle stored by WithHandle.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(ctxKey{}).(*Handle)
	return h, ok && h != nil
}
