package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/navigation"
	"github.com/mawahib/portal/internal/response"
)

// RequireRole checks that the signed-in user holds one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := GetSession(c)
		if h == nil || !h.IsAuthenticated() {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
			return
		}

		role := h.Role()
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}

		forbid(c, role)
	}
}

// RequirePath applies the browser route rules of path to an API request, so
// the data behind a page is gated exactly like the page itself.
func RequirePath(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !AllowPath(c, path) {
			return
		}
		c.Next()
	}
}

// AllowPath checks path against the session's role and aborts the request
// when access is denied. It is used by handlers whose route is chosen per
// request.
func AllowPath(c *gin.Context, path string) bool {
	h := GetSession(c)
	if h == nil || !h.IsAuthenticated() {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
		return false
	}
	if navigation.Allowed(h.Role(), path) {
		return true
	}
	forbid(c, h.Role())
	return false
}

// forbid distinguishes accounts still waiting for a role from accounts that
// simply lack access.
func forbid(c *gin.Context, role model.Role) {
	if role == model.RoleUser || !role.Known() {
		response.AbortFail(c, http.StatusForbidden, response.ErrAwaitingRole)
		return
	}
	response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
}
