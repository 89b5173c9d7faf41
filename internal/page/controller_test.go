package page

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type recordingNotifier struct {
	mu    sync.Mutex
	infos []string
	errs  []string
	oks   []string
}

func (r *recordingNotifier) Success(_, m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oks = append(r.oks, m)
}

func (r *recordingNotifier) Error(_, m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, m)
}

func (r *recordingNotifier) Info(_, m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, m)
}

func serve(t *testing.T, h http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL)
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListPage_CreateValidatesBeforeSending(t *testing.T) {
	var posts atomic.Int32
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		reply(w, 201, map[string]any{"_id": "t1", "title": "Help"})
	})
	def, ok := Lookup("tickets")
	require.True(t, ok)
	n := &recordingNotifier{}
	c := def.New(api, n)

	_, err := c.Create(context.Background(), json.RawMessage(`{"title":"  ","description":""}`), nil)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "description")
	assert.Equal(t, int32(0), posts.Load())
	assert.Empty(t, n.errs)
}

func TestListPage_TicketStatusMustBeKnown(t *testing.T) {
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, map[string]any{"_id": "t1", "status": "Resolved"})
	})
	def, _ := Lookup("ticket-list")
	c := def.New(api, &recordingNotifier{})

	_, err := c.Update(context.Background(), "t1", json.RawMessage(`{"status":"Done"}`), nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")

	rec, err := c.Update(context.Background(), "t1", json.RawMessage(`{"status":"Resolved"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusResolved, rec.(model.Ticket).Status)
}

func TestListPage_SemesterWarnsOnDuplicateCourseCodes(t *testing.T) {
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var sem model.Semester
		_ = json.NewDecoder(r.Body).Decode(&sem)
		sem.ID = "sem1"
		reply(w, 201, sem)
	})
	def, _ := Lookup("semesters")
	n := &recordingNotifier{}
	c := def.New(api, n)

	body := `{"semesterNumber":1,"courses":[
		{"courseCode":"CS101","courseName":"Intro","grade":90,"credits":3,"ects":5},
		{"courseCode":"CS101","courseName":"Intro again","grade":80,"credits":3,"ects":5}]}`
	_, err := c.Create(context.Background(), json.RawMessage(body), nil)
	require.NoError(t, err)

	require.Len(t, n.infos, 1)
	assert.Contains(t, n.infos[0], "CS101")
	assert.Equal(t, 1, len(c.Snapshot().Items.([]model.Semester)))
}

func TestListPage_SemesterRejectsOutOfRangeGPA(t *testing.T) {
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
		w.WriteHeader(http.StatusInternalServerError)
	})
	def, _ := Lookup("semesters")
	c := def.New(api, &recordingNotifier{})

	_, err := c.Create(context.Background(), json.RawMessage(`{"semesterNumber":1,"semesterGPA":5,"courses":[]}`), nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "semesterGPA")
}

func TestScholarshipForm_ModesAndValidation(t *testing.T) {
	var (
		mu     sync.Mutex
		stored []model.ScholarshipStudent
	)
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			reply(w, 200, stored)
		case http.MethodPost:
			var rec model.ScholarshipStudent
			_ = json.NewDecoder(r.Body).Decode(&rec)
			rec.ID = "s1"
			stored = append(stored, rec)
			reply(w, 201, rec)
		case http.MethodPut:
			assert.True(t, strings.HasSuffix(r.URL.Path, "/s1"))
			var rec model.ScholarshipStudent
			_ = json.NewDecoder(r.Body).Decode(&rec)
			rec.ID = "s1"
			stored[0] = rec
			reply(w, 200, rec)
		}
	})
	ctx := context.Background()
	f := NewScholarshipForm(api, &recordingNotifier{})

	view, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "create", view.Mode)
	assert.Nil(t, view.Current)

	_, _, err = f.Save(ctx, json.RawMessage(`{"city":"Ankara"}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	valid := `{"country_of_studying":"Turkey","city":"Ankara","university":"METU","type_of_university":"Public",
		"program_of_study":"CS","student_university_id":"42","enrollment_year":2022,"expected_graduation_year":2026}`
	_, mode, err := f.Save(ctx, json.RawMessage(valid))
	require.NoError(t, err)
	assert.Equal(t, "create", mode.String())
	assert.Equal(t, "edit", f.Snapshot().Mode)

	f2 := NewScholarshipForm(api, &recordingNotifier{})
	view, err = f2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "edit", view.Mode)
	require.NotNil(t, view.Current)

	updated := strings.Replace(valid, "Ankara", "Izmir", 1)
	rec, mode, err := f2.Save(ctx, json.RawMessage(updated))
	require.NoError(t, err)
	assert.Equal(t, "edit", mode.String())
	assert.Equal(t, "Izmir", rec.City)
}

func TestReportForm_LoadsConcurrentlyAndAddsOptions(t *testing.T) {
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/studentReports/options":
			reply(w, 200, map[string]any{"courses": []map[string]string{{"_id": "c1", "title": "Go"}}})
		case r.URL.Path == "/studentReports":
			reply(w, 200, map[string]any{"studentReports": []map[string]string{{"_id": "r1", "title": "March"}}})
		case r.URL.Path == "/notes" && r.Method == http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			reply(w, 201, map[string]string{"_id": "n1", "title": "Reading"})
		case r.URL.Path == "/studentReport" && r.Method == http.MethodPost:
			reply(w, 201, map[string]string{"_id": "r2", "title": "April", "noteId": "n1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()
	f := NewReportForm(api, &recordingNotifier{})

	view, err := f.Load(ctx)
	require.NoError(t, err)
	require.Len(t, view.Reports, 1)
	require.Len(t, view.Options.Courses, 1)
	assert.NotNil(t, view.Options.Notes)

	note, err := f.AddOption(ctx, "note", json.RawMessage(`{"title":"Reading"}`))
	require.NoError(t, err)
	assert.Equal(t, "n1", note.(model.Note).ID)
	assert.Len(t, f.Snapshot().Options.Notes, 1)

	_, err = f.AddOption(ctx, "spaceship", json.RawMessage(`{"title":"x"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = f.Submit(ctx, json.RawMessage(`{"title":"April"}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "date_of_report")

	rec, err := f.Submit(ctx, json.RawMessage(`{"title":"April","date_of_report":"2024-04-01","noteId":"n1"}`))
	require.NoError(t, err)
	assert.Equal(t, "n1", rec.(model.StudentReport).NoteID.ID)
	assert.Len(t, f.Snapshot().Reports, 2)
}

func TestReportForm_OptionFailureKeepsReports(t *testing.T) {
	api := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/studentReports/options" {
			reply(w, 500, map[string]string{"message": "boom"})
			return
		}
		reply(w, 200, []map[string]string{{"_id": "r1"}})
	})
	n := &recordingNotifier{}
	f := NewReportForm(api, n)

	view, err := f.Load(context.Background())
	require.Error(t, err)
	assert.Len(t, view.Reports, 1)
	assert.Equal(t, []string{"boom"}, n.errs)
}
