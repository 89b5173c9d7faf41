package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/response"
	ws "github.com/mawahib/portal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// NotificationHandler delivers the session's toasts.
type NotificationHandler struct {
	hub      *notify.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(hub *notify.Hub, log zerolog.Logger, allowedOrigins []string) *NotificationHandler {
	return &NotificationHandler{
		hub:      hub,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Drain godoc
// GET /api/notifications
// Returns and clears the notifications raised while no socket was connected.
func (h *NotificationHandler) Drain(c *gin.Context) {
	sess := middleware.GetSession(c)
	response.Success(c, http.StatusOK, gin.H{"notifications": h.hub.Drain(sess.ID())})
}

// Stream godoc
// WS /ws/notifications
// Upgrades to WebSocket and pushes every notification of the session.
func (h *NotificationHandler) Stream(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil || !sess.IsAuthenticated() {
		response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	events, unsubscribe := h.hub.Subscribe(sess.ID())
	defer unsubscribe()

	wsLog := h.log.With().Str("session_id", sess.ID()).Logger()
	wsLog.Info().Msg("Notification stream connected")

	ws.KeepAlive(conn)

	// gorilla connections allow one writer, so the reader hands its replies
	// to the write loop below.
	replies := make(chan interface{}, 8)
	done := make(chan struct{})
	go h.readLoop(conn, wsLog, replies, done)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case n := <-events:
			if err := ws.WriteTyped(conn, ws.NewNotificationMessage(n)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *NotificationHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, replies chan<- interface{}, done chan<- struct{}) {
	defer close(done)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		default:
		}
	}
}
