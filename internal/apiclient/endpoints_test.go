package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/model"
)

func TestLogin(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"tok","user":{"id":"u1","name":"Amal","role":"scholarship student"}}`))
	})

	resp, err := c.Login(context.Background(), model.LoginRequest{Email: "a@b.co", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, model.RoleScholarshipStudent, resp.User.Role)

	_, err = c.Login(context.Background(), model.LoginRequest{Email: "a@b.co", Password: "wrong"})
	assert.True(t, IsRejected(err))
	assert.Equal(t, "Invalid credentials", UserMessage(err, ""))
}

func TestLogin_IncompleteResponse(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok"}`))
	})

	_, err := c.Login(context.Background(), model.LoginRequest{Email: "a@b.co", Password: "x"})
	assert.True(t, IsMalformed(err))
	assert.ErrorIs(t, err, ErrIncompleteLogin)
}

func TestResetPassword_UsesTokenPath(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/reset-password/abc123", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "n3wpass", body["newPassword"])
		w.Write([]byte(`{"message":"ok"}`))
	})

	require.NoError(t, c.ResetPassword(context.Background(), "abc123", "n3wpass"))
}

func TestSummaryAndUsers(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/summary":
			assert.Equal(t, "tickets", r.URL.Query().Get("category"))
			w.Write([]byte(`{"result":[{"_id":"u1","name":"Amal","role":"Admin","ticketCount":4}]}`))
		case "/api/user/users":
			w.Write([]byte(`{"users":[{"_id":"u1","role":"Employee"},{"_id":"u2","role":"bogus"}]}`))
		case "/api/user/users/u2/role":
			assert.Equal(t, http.MethodPut, r.Method)
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	rows, err := c.Summary(ctx, model.CategoryTickets)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Count(model.CategoryTickets))

	users, err := c.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.RoleEmployee, users[0].Role)
	assert.Equal(t, model.RoleUnknown, users[1].Role)

	require.NoError(t, c.UpdateUserRole(ctx, "u2", model.RoleInstituteStudent))
}

func TestAllReports_EmptyEnvelope(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	reports, err := c.AllReports(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}
