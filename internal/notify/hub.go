// Package notify delivers toast notifications to the browser sessions that
// raised them.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultBuffer is the number of undelivered notifications kept per session.
const DefaultBuffer = 32

// Notification is one toast.
type Notification struct {
	Level    Level     `json:"level"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
	Time     time.Time `json:"time"`
}

type subscriber struct {
	ch chan Notification
}

// Hub fans notifications out to the websocket subscribers of each session.
// Notifications raised while a session has no subscriber are kept, up to the
// buffer size, and delivered on the next Subscribe or Drain.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[*subscriber]struct{}
	pending map[string][]Notification
	size    int
	now     func() time.Time
	log     zerolog.Logger
}

// NewHub creates a Hub buffering up to size notifications per session.
func NewHub(size int, log zerolog.Logger) *Hub {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &Hub{
		subs:    make(map[string]map[*subscriber]struct{}),
		pending: make(map[string][]Notification),
		size:    size,
		now:     time.Now,
		log:     log.With().Str("component", "notify").Logger(),
	}
}

// Publish delivers n to every subscriber of sessionID, or buffers it when
// there is none.
func (h *Hub) Publish(sessionID string, n Notification) {
	if n.Time.IsZero() {
		n.Time = h.now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[sessionID]
	if len(subs) == 0 {
		h.bufferLocked(sessionID, n)
		return
	}
	for sub := range subs {
		select {
		case sub.ch <- n:
		default:
			h.log.Warn().Str("session_id", sessionID).Msg("Subscriber full, notification dropped")
		}
	}
}

func (h *Hub) bufferLocked(sessionID string, n Notification) {
	q := append(h.pending[sessionID], n)
	if len(q) > h.size {
		q = q[len(q)-h.size:]
	}
	h.pending[sessionID] = q
}

// Subscribe registers a receiver for sessionID. Buffered notifications are
// delivered first. The returned cancel func must be called once the receiver
// is gone.
func (h *Hub) Subscribe(sessionID string) (<-chan Notification, func()) {
	sub := &subscriber{ch: make(chan Notification, h.size)}

	h.mu.Lock()
	for _, n := range h.pending[sessionID] {
		sub.ch <- n
	}
	delete(h.pending, sessionID)
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*subscriber]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[sessionID], sub)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
		})
	}
}

// Drain removes and returns the buffered notifications of sessionID.
func (h *Hub) Drain(sessionID string) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.pending[sessionID]
	delete(h.pending, sessionID)
	if q == nil {
		return []Notification{}
	}
	return q
}

// Forget drops everything buffered for sessionID.
func (h *Hub) Forget(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, sessionID)
}

// Sessions returns the ids of sessions holding buffered notifications.
func (h *Hub) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.pending))
	for id := range h.pending {
		ids = append(ids, id)
	}
	return ids
}

// For returns a notifier bound to one session.
func (h *Hub) For(sessionID string) *SessionNotifier {
	return &SessionNotifier{hub: h, sessionID: sessionID}
}

// SessionNotifier publishes to a single session. It satisfies the resource
// controller's Notifier.
type SessionNotifier struct {
	hub       *Hub
	sessionID string
}

func (s *SessionNotifier) Success(resource, message string) {
	s.hub.Publish(s.sessionID, Notification{Level: LevelSuccess, Resource: resource, Message: message})
}

func (s *SessionNotifier) Error(resource, message string) {
	s.hub.Publish(s.sessionID, Notification{Level: LevelError, Resource: resource, Message: message})
}

// Info publishes an informational notification.
func (s *SessionNotifier) Info(resource, message string) {
	s.hub.Publish(s.sessionID, Notification{Level: LevelInfo, Resource: resource, Message: message})
}
