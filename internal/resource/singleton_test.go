package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
)

type fakeScholarshipAPI struct {
	record  *model.ScholarshipStudent
	posts   atomic.Int32
	puts    atomic.Int32

	mu      sync.Mutex
	putPath string
}

func (f *fakeScholarshipAPI) lastPut() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putPath
}

func (f *fakeScholarshipAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if f.record == nil {
			writeJSON(w, 200, []model.ScholarshipStudent{})
			return
		}
		writeJSON(w, 200, []model.ScholarshipStudent{*f.record})
	case http.MethodPost:
		f.posts.Add(1)
		var rec model.ScholarshipStudent
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec.ID = "s1"
		writeJSON(w, 201, rec)
	case http.MethodPut:
		f.puts.Add(1)
		f.mu.Lock()
		f.putPath = r.URL.Path
		f.mu.Unlock()
		var rec model.ScholarshipStudent
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec.ID = "s1"
		writeJSON(w, 200, map[string]any{"scholarshipStudent": rec})
	}
}

func newScholarship(t *testing.T, api *fakeScholarshipAPI) (*Singleton[model.ScholarshipStudent], *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	n := &recordingNotifier{}
	return NewSingleton(apiclient.New(srv.URL), ScholarshipStudents, n), n
}

func TestSingleton_EmptyCollectionIsCreateMode(t *testing.T) {
	api := &fakeScholarshipAPI{}
	s, _ := newScholarship(t, api)
	ctx := context.Background()

	mode, rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, mode)
	assert.Empty(t, rec.ID)

	saved, mode, err := s.Save(ctx, model.ScholarshipStudent{City: "Istanbul"})
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, "s1", saved.ID)
	assert.Equal(t, int32(1), api.posts.Load())
	assert.Equal(t, ModeEdit, s.Mode())
}

func TestSingleton_ExistingRecordIsEditMode(t *testing.T) {
	api := &fakeScholarshipAPI{record: &model.ScholarshipStudent{ID: "s1", City: "Ankara"}}
	s, _ := newScholarship(t, api)
	ctx := context.Background()

	mode, rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, "Ankara", rec.City)

	saved, mode, err := s.Save(ctx, model.ScholarshipStudent{City: "Izmir"})
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, "Izmir", saved.City)
	assert.Equal(t, "/scholarship-student/s1", api.lastPut())
	assert.Equal(t, int32(0), api.posts.Load())
	assert.Equal(t, int32(1), api.puts.Load())

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Izmir", current.City)
}

func TestSingleton_SecondCreateIsRefused(t *testing.T) {
	api := &fakeScholarshipAPI{record: &model.ScholarshipStudent{ID: "s1"}}
	s, n := newScholarship(t, api)
	ctx := context.Background()
	_, _, err := s.Load(ctx)
	require.NoError(t, err)

	_, err = s.Create(ctx, model.ScholarshipStudent{City: "Bursa"})

	assert.ErrorIs(t, err, ErrSingletonExists)
	assert.Equal(t, int32(0), api.posts.Load())
	assert.Len(t, n.errors(), 1)
	assert.Equal(t, 1, s.List().Len())
}
