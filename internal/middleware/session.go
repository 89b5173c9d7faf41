package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/session"
)

const (
	// ContextKeySession is the Gin context key for the session handle.
	ContextKeySession = "session"
)

// SessionCookie configures the cookie carrying the portal session id.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Session opens the browser's session from store on every request. A request
// without a valid cookie gets a fresh, signed-out session id.
func Session(store session.Store, cookie SessionCookie, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "session").Logger()

	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if err != nil || uuid.Validate(id) != nil {
			id = session.NewID()
		}

		h, err := session.Open(c.Request.Context(), store, id)
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(response.ContextKeyRequestID)).Msg("Failed to open session")
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrSessionUnavailable)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, id, int(cookie.TTL.Seconds()), "/", "", cookie.Secure, true)

		c.Set(ContextKeySession, h)
		c.Request = c.Request.WithContext(session.WithHandle(c.Request.Context(), h))
		c.Next()
	}
}

// GetSession retrieves the session handle from the Gin context.
func GetSession(c *gin.Context) *session.Handle {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	h, ok := val.(*session.Handle)
	if !ok {
		return nil
	}
	return h
}
