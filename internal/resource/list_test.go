package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
)

type note struct {
	kind     string
	resource string
	message  string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Success(resource, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{"success", resource, message})
}

func (r *recordingNotifier) Error(resource, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{"error", resource, message})
}

func (r *recordingNotifier) errors() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []note
	for _, n := range r.notes {
		if n.kind == "error" {
			out = append(out, n)
		}
	}
	return out
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func course(id, title string) model.Course {
	return model.Course{Base: model.Base{ID: id, Title: title}}
}

func newCourseList(t *testing.T, h http.HandlerFunc) (*List[model.Course], *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	n := &recordingNotifier{}
	ep := Endpoint[model.Course]{Name: "course", Path: "/courses", ListKey: "courses", ItemKey: "course"}
	return NewList(apiclient.New(srv.URL), ep, n), n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ids(items []model.Course) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}

func TestLoad_ReplacesWholesaleInServerOrder(t *testing.T) {
	var calls atomic.Int32
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, 200, []model.Course{course("a", "A"), course("b", "B")})
			return
		}
		writeJSON(w, 200, map[string]any{"courses": []model.Course{course("c", "C"), course("a", "A")}})
	})
	ctx := context.Background()

	items, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(items))

	items, err = l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(items))
	assert.Equal(t, 0, n.count())
}

func TestLoad_FailureLeavesListEmptyWithOneError(t *testing.T) {
	var fail atomic.Bool
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, 500, map[string]string{"message": "database down"})
			return
		}
		writeJSON(w, 200, []model.Course{course("a", "A")})
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	fail.Store(true)
	_, err = l.Load(ctx)
	require.Error(t, err)
	assert.True(t, apiclient.IsRejected(err))
	assert.Empty(t, l.Items())

	errs := n.errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "database down", errs[0].message)
}

func TestLoad_RejectsRecordsWithoutID(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"a"},{"title":"no id"}]`))
	})

	_, err := l.Load(context.Background())
	assert.True(t, apiclient.IsMalformed(err))
	assert.Empty(t, l.Items())
	require.Len(t, n.errors(), 1)
	assert.Equal(t, "Failed to load courses", n.errors()[0].message)
}

func TestCreate_AppendsServerRecord(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, []model.Course{course("a", "A")})
		case http.MethodPost:
			var draft model.Course
			_ = json.NewDecoder(r.Body).Decode(&draft)
			writeJSON(w, 201, map[string]any{"course": course("srv-1", strings.ToUpper(draft.Title))})
		}
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	got, err := l.Create(ctx, course("", "go"))
	require.NoError(t, err)

	assert.Equal(t, "srv-1", got.ID)
	assert.Equal(t, "GO", got.Title)
	assert.Equal(t, []string{"a", "srv-1"}, ids(l.Items()))
	require.Len(t, n.notes, 1)
	assert.Equal(t, "success", n.notes[0].kind)
	assert.Equal(t, "Course created successfully", n.notes[0].message)
}

func TestCreate_ResponseWithoutRecordIsMalformed(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]string{"message": "ok"})
	})

	_, err := l.Create(context.Background(), course("", "go"))
	assert.True(t, apiclient.IsMalformed(err))
	assert.ErrorIs(t, err, ErrNoRecord)
	assert.Empty(t, l.Items())
	assert.Len(t, n.errors(), 1)
}

func TestUpdate_ReplacesInPlaceOrAppends(t *testing.T) {
	l, _ := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, []model.Course{course("a", "A"), course("b", "B"), course("c", "C")})
		case http.MethodPut:
			id := strings.TrimPrefix(r.URL.Path, "/courses/")
			var p map[string]any
			_ = json.NewDecoder(r.Body).Decode(&p)
			writeJSON(w, 200, course(id, p["title"].(string)))
		}
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	_, err = l.Update(ctx, "b", Patch{"title": "B2"})
	require.NoError(t, err)
	items := l.Items()
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
	assert.Equal(t, "B2", items[1].Title)

	_, err = l.Update(ctx, "z", Patch{"title": "Z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "z"}, ids(l.Items()))
}

func TestUpdate_MergesPatchWhenServerReturnsNoRecord(t *testing.T) {
	l, _ := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, []model.Course{course("a", "A")})
		case http.MethodPut:
			writeJSON(w, 200, map[string]string{"message": "Updated"})
		}
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	got, err := l.Update(ctx, "a", Patch{"description": "updated"})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "updated", got.Description)
}

func TestUpdate_FailureLeavesListUnchangedWithOneError(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, []model.Course{course("a", "A"), course("b", "B")})
		default:
			writeJSON(w, 400, map[string]string{"message": "Title is required"})
		}
	})
	ctx := context.Background()
	before, err := l.Load(ctx)
	require.NoError(t, err)

	_, err = l.Update(ctx, "a", Patch{"title": ""})
	require.Error(t, err)

	assert.Equal(t, before, l.Items())
	errs := n.errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "Title is required", errs[0].message)
}

func TestRemove_DeletesMatchingRecord(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, []model.Course{course("a", "A"), course("b", "B"), course("c", "C")})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)
	snapshot := l.Items()

	require.NoError(t, l.Remove(ctx, "b"))

	assert.Equal(t, []string{"a", "c"}, ids(l.Items()))
	assert.Equal(t, []string{"a", "b", "c"}, ids(snapshot))
	_, found := l.Find("b")
	assert.False(t, found)
	assert.Equal(t, "Course deleted successfully", n.notes[0].message)
}

func TestRemove_NetworkFailureKeepsRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []model.Course{course("a", "A")})
	}))
	n := &recordingNotifier{}
	l := NewList(apiclient.New(srv.URL), Endpoint[model.Course]{Name: "course", Path: "/courses"}, n)
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	srv.Close()
	err = l.Remove(ctx, "a")
	assert.True(t, apiclient.IsNetworkUnavailable(err))
	assert.Equal(t, []string{"a"}, ids(l.Items()))
	assert.Len(t, n.errors(), 1)
}

func TestLoad_StaleResponseDoesNotResurrectDeletedRecord(t *testing.T) {
	var block atomic.Bool
	slowLoad := make(chan struct{})
	loadStarted := make(chan struct{}, 1)

	l, _ := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if block.Load() {
				loadStarted <- struct{}{}
				<-slowLoad
			}
			writeJSON(w, 200, []model.Course{course("a", "A"), course("b", "B")})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	_, err := l.Load(ctx)
	require.NoError(t, err)

	block.Store(true)
	result := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		result <- err
	}()
	<-loadStarted

	require.NoError(t, l.Remove(ctx, "b"))
	close(slowLoad)

	assert.ErrorIs(t, <-result, ErrStale)
	assert.Equal(t, []string{"a"}, ids(l.Items()))
}

func TestLoad_NewerLoadWins(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	firstStarted := make(chan struct{})

	l, _ := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
			writeJSON(w, 200, []model.Course{course("old", "Old")})
			return
		}
		writeJSON(w, 200, []model.Course{course("new", "New")})
	})
	ctx := context.Background()

	result := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		result <- err
	}()
	<-firstStarted

	_, err := l.Load(ctx)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-result, ErrStale)
	assert.Equal(t, []string{"new"}, ids(l.Items()))
}

func TestClose_CancelsInFlightAndIgnoresLaterResponses(t *testing.T) {
	started := make(chan struct{}, 1)
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			writeJSON(w, 200, []model.Course{course("a", "A")})
		}
	})

	result := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background())
		result <- err
	}()
	<-started
	l.Close()

	assert.ErrorIs(t, <-result, ErrClosed)
	assert.Empty(t, l.Items())
	assert.Equal(t, 0, n.count())

	_, err := l.Create(context.Background(), course("", "x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, l.Remove(context.Background(), "a"), ErrClosed)
	assert.Equal(t, 0, n.count())
}

func TestCallerCancellationRaisesNoNotification(t *testing.T) {
	l, n := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Update(ctx, "a", Patch{"title": "x"})
	assert.True(t, apiclient.IsCanceled(err))
	assert.Equal(t, 0, n.count())
}

func TestItemsReturnsCopy(t *testing.T) {
	l, _ := newCourseList(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []model.Course{course("a", "A")})
	})
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	items := l.Items()
	items[0].Title = "mutated"

	got, ok := l.Find("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
}

func TestPatchFrom_DropsID(t *testing.T) {
	p, err := PatchFrom(course("a", "A"))
	require.NoError(t, err)
	_, hasID := p["_id"]
	assert.False(t, hasID)
	assert.Equal(t, "A", p["title"])
}
