package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/session"
)

type closer struct{ closed bool }

func (c *closer) Close() { c.closed = true }

// brokenStore fails every lookup, as Redis does while it is down.
type brokenStore struct{ *session.MemoryStore }

func (brokenStore) Get(context.Context, string) (model.Session, error) {
	return model.Session{}, errors.New("dial tcp: connection refused")
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSessionReaper_ReleasesEndedSessions(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	pages := page.NewRegistry()
	hub := notify.NewHub(notify.DefaultBuffer, zerolog.Nop())
	user := &model.User{ID: "u1", Role: model.RoleScholarshipStudent}

	require.NoError(t, store.Save(ctx, "live", model.Session{Token: tokenExpiring(t, time.Now().Add(time.Hour)), User: user}))
	require.NoError(t, store.Save(ctx, "expired", model.Session{Token: tokenExpiring(t, time.Now().Add(-time.Minute)), User: user}))

	live, expired, gone := &closer{}, &closer{}, &closer{}
	pages.Mount("live", "notes", live)
	pages.Mount("expired", "notes", expired)
	pages.Mount("logged-out", "courses", gone)
	hub.For("logged-out").Success("course", "Course created successfully")

	reaper := NewSessionReaper(store, pages, hub, time.Minute, zerolog.Nop())

	assert.Equal(t, 2, reaper.ReapOnce(ctx))
	assert.False(t, live.closed)
	assert.True(t, expired.closed)
	assert.True(t, gone.closed)
	assert.Equal(t, []string{"live"}, pages.Sessions())
	assert.Empty(t, hub.Sessions())
	assert.Equal(t, 1, store.Len())

	assert.Zero(t, reaper.ReapOnce(ctx), "second pass has nothing left to release")
}

func TestSessionReaper_KeepsSessionsWhenStoreFails(t *testing.T) {
	pages := page.NewRegistry()
	hub := notify.NewHub(notify.DefaultBuffer, zerolog.Nop())
	c := &closer{}
	pages.Mount("s1", "notes", c)

	reaper := NewSessionReaper(brokenStore{session.NewMemoryStore()}, pages, hub, 0, zerolog.Nop())

	assert.Zero(t, reaper.ReapOnce(context.Background()))
	assert.False(t, c.closed)
	assert.Equal(t, DefaultReapInterval, reaper.interval)
}

func TestSessionReaper_StartStopsWithContext(t *testing.T) {
	reaper := NewSessionReaper(session.NewMemoryStore(), page.NewRegistry(),
		notify.NewHub(notify.DefaultBuffer, zerolog.Nop()), 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
