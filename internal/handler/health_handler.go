package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mawahib/portal/internal/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	store     Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. store may be nil when the
// session store has nothing to ping.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, startTime: time.Now()}
}

// Health godoc
// GET /health
// Returns 200 when the session store answers, 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"uptime": formatDuration(time.Since(h.startTime)),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["session_store"] = err.Error()
			response.Success(c, http.StatusServiceUnavailable, body)
			return
		}
	}
	response.Success(c, http.StatusOK, body)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
