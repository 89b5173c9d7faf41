// Package session holds the authenticated state of each browser: the API
// token and the signed-in user, persisted across page loads.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mawahib/portal/internal/model"
)

// Common session errors.
var (
	ErrNotFound          = errors.New("session not found")
	ErrIncompleteSession = errors.New("session requires both a token and a user")
	ErrTokenExpired      = errors.New("session token already expired")
)

// Store persists sessions by portal session id.
type Store interface {
	Get(ctx context.Context, id string) (model.Session, error)
	Save(ctx context.Context, id string, sess model.Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Store used in tests and single-node dev runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]model.Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return clone(sess), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, sess model.Session) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.IsAuthenticated() {
		return ErrIncompleteSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = clone(sess)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep removes sessions whose token expired at or before now and returns
// how many were removed. Tokens without an expiry are kept.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if exp, ok := TokenExpiry(sess.Token); ok && !exp.After(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func clone(sess model.Session) model.Session {
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}
