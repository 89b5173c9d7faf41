package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/session"
)

// DefaultReapInterval is how often the reaper looks for ended sessions.
const DefaultReapInterval = time.Minute

// sweeper is implemented by stores that expire records themselves on demand.
type sweeper interface {
	Sweep(now time.Time) int
}

// SessionReaper releases what the portal keeps in memory for sessions whose
// stored record is gone: mounted pages and buffered notifications. Redis
// expires records by TTL; the memory store is swept here.
type SessionReaper struct {
	store    session.Store
	pages    *page.Registry
	hub      *notify.Hub
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(store session.Store, pages *page.Registry, hub *notify.Hub, interval time.Duration, log zerolog.Logger) *SessionReaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &SessionReaper{
		store:    store,
		pages:    pages,
		hub:      hub,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "session_reaper").Logger(),
	}
}

// Start begins the reaper loop. Call in a goroutine.
func (w *SessionReaper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.ReapOnce(ctx)
		}
	}
}

// ReapOnce runs a single pass and returns how many sessions were released.
func (w *SessionReaper) ReapOnce(ctx context.Context) int {
	if s, ok := w.store.(sweeper); ok {
		if n := s.Sweep(w.now()); n > 0 {
			w.log.Debug().Int("sessions", n).Msg("Expired sessions swept")
		}
	}

	seen := make(map[string]struct{})
	for _, id := range w.pages.Sessions() {
		seen[id] = struct{}{}
	}
	for _, id := range w.hub.Sessions() {
		seen[id] = struct{}{}
	}

	released := 0
	for id := range seen {
		if ctx.Err() != nil {
			break
		}
		_, err := w.store.Get(ctx, id)
		switch {
		case errors.Is(err, session.ErrNotFound):
			pages := w.pages.UnmountSession(id)
			w.hub.Forget(id)
			released++
			w.log.Info().Str("session_id", id).Int("pages_closed", pages).Msg("Released ended session")
		case err != nil:
			w.log.Error().Err(err).Str("session_id", id).Msg("Session lookup failed")
		}
	}
	return released
}
