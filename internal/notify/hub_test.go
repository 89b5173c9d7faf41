package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/resource"
)

var _ resource.Notifier = (*SessionNotifier)(nil)

func receive(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification received")
		return Notification{}
	}
}

func TestHub_BuffersUntilSubscribe(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	h.For("s1").Error("course", "Failed to load courses")

	ch, cancel := h.Subscribe("s1")
	defer cancel()

	n := receive(t, ch)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, "course", n.Resource)
	assert.False(t, n.Time.IsZero())
	assert.Empty(t, h.Drain("s1"))
}

func TestHub_DeliversOnlyToOwnSession(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	a, cancelA := h.Subscribe("a")
	defer cancelA()
	b, cancelB := h.Subscribe("b")
	defer cancelB()

	h.For("a").Success("note", "Note created successfully")

	assert.Equal(t, "Note created successfully", receive(t, a).Message)
	select {
	case n := <-b:
		t.Fatalf("unexpected notification %+v", n)
	default:
	}
}

func TestHub_BufferIsBounded(t *testing.T) {
	h := NewHub(3, zerolog.Nop())
	for i := 0; i < 5; i++ {
		h.For("s").Info("x", fmt.Sprintf("m%d", i))
	}

	got := h.Drain("s")
	require.Len(t, got, 3)
	assert.Equal(t, "m2", got[0].Message)
	assert.Equal(t, "m4", got[2].Message)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	_, cancel := h.Subscribe("s")
	cancel()
	cancel()

	h.For("s").Info("x", "after cancel")
	assert.Len(t, h.Drain("s"), 1)
}

func TestHub_Forget(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	h.For("s").Info("x", "m")
	h.Forget("s")
	assert.Empty(t, h.Drain("s"))
}

func TestHub_SessionsWithPending(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	h.For("a").Success("note", "Note created successfully")
	h.For("b").Info("note", "Loading")

	assert.ElementsMatch(t, []string{"a", "b"}, h.Sessions())

	h.Forget("a")
	assert.Equal(t, []string{"b"}, h.Sessions())
}
