package websocket

import (
	"time"

	"github.com/mawahib/portal/internal/notify"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventNotification Event = "notification"
	EventPong         Event = "pong"
)

// NotificationMessage carries one toast to the browser.
type NotificationMessage struct {
	Event    Event        `json:"event"`
	Level    notify.Level `json:"level"`
	Message  string       `json:"message"`
	Resource string       `json:"resource,omitempty"`
	Time     time.Time    `json:"time"`
}

// NewNotificationMessage wraps n for the wire.
func NewNotificationMessage(n notify.Notification) NotificationMessage {
	return NotificationMessage{
		Event:    EventNotification,
		Level:    n.Level,
		Message:  n.Message,
		Resource: n.Resource,
		Time:     n.Time,
	}
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
