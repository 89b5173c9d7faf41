package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
		wantMsg    string
	}{
		{
			name:       "api rejection keeps status and message",
			err:        &apiclient.Error{Kind: apiclient.KindRejected, Status: http.StatusNotFound, Message: "Course not found"},
			wantStatus: http.StatusNotFound,
			wantCode:   response.ErrAPIRejected,
			wantMsg:    "Course not found",
		},
		{
			name:       "rejection without error status",
			err:        &apiclient.Error{Kind: apiclient.KindRejected, Status: http.StatusMultipleChoices},
			wantStatus: http.StatusBadGateway,
			wantCode:   response.ErrAPIRejected,
		},
		{
			name:       "network failure",
			err:        fmt.Errorf("load: %w", &apiclient.Error{Kind: apiclient.KindNetworkUnavailable, Err: errors.New("connection refused")}),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   response.ErrAPIUnavailable,
			wantMsg:    "The server could not be reached. Check your connection and try again.",
		},
		{
			name:       "malformed response",
			err:        &apiclient.Error{Kind: apiclient.KindMalformed, Status: http.StatusOK},
			wantStatus: http.StatusBadGateway,
			wantCode:   response.ErrAPIMalformed,
		},
		{
			name:       "validation",
			err:        &page.ValidationError{Fields: map[string]string{"title": "title is a required field"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   response.ErrValidation,
		},
		{name: "singleton exists", err: resource.ErrSingletonExists, wantStatus: http.StatusConflict, wantCode: response.ErrSingletonExists},
		{name: "unknown report item", err: page.ErrUnknownKind, wantStatus: http.StatusNotFound, wantCode: response.ErrNotFound},
		{name: "page not mounted", err: service.ErrPageNotMounted, wantStatus: http.StatusNotFound, wantCode: response.ErrPageNotMounted},
		{name: "unknown role", err: service.ErrUnknownRole, wantStatus: http.StatusBadRequest, wantCode: response.ErrValidation},
		{name: "expired token", err: session.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantCode: response.ErrSessionExpired},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantCode: response.ErrAPIUnavailable},
		{name: "unmounted while in flight", err: resource.ErrClosed, wantStatus: http.StatusConflict, wantCode: response.ErrCanceled},
		{name: "superseded load", err: resource.ErrStale, wantStatus: http.StatusConflict, wantCode: response.ErrCanceled},
		{name: "canceled", err: context.Canceled, wantStatus: http.StatusConflict, wantCode: response.ErrCanceled},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Error.Message)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 5s", formatDuration(5*time.Second))
	assert.Equal(t, "2h 0m 1s", formatDuration(2*time.Hour+time.Second))
	assert.Equal(t, "1d 2h 3m 4s", formatDuration(26*time.Hour+3*time.Minute+4*time.Second))
}
