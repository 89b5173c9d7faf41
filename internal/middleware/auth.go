package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mawahib/portal/internal/response"
)

// RequireAuth rejects requests whose session holds no credentials.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := GetSession(c)
		if h == nil || !h.IsAuthenticated() {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
			return
		}
		c.Next()
	}
}
