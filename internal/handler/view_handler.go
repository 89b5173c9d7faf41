package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/navigation"
	"github.com/mawahib/portal/internal/response"
)

// ViewHandler resolves browser paths to views.
type ViewHandler struct{}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

// Resolve godoc
// GET /api/view?path=/student/courses
// Returns the view the browser should render for path given the session.
func (h *ViewHandler) Resolve(c *gin.Context) {
	path := c.DefaultQuery("path", "/")

	sess := middleware.GetSession(c)
	authenticated := sess.IsAuthenticated()
	role := sess.Role()

	res := navigation.Resolve(authenticated, role, path)

	body := gin.H{
		"view":          res.View,
		"params":        res.Params,
		"route":         res.Route,
		"authenticated": authenticated,
	}
	if authenticated {
		body["role"] = role
		body["dashboard"] = navigation.Dashboard(role)
	}
	response.Success(c, http.StatusOK, body)
}

// Routes godoc
// GET /api/view/routes
// Lists the routes the session may open, for building navigation menus.
func (h *ViewHandler) Routes(c *gin.Context) {
	sess := middleware.GetSession(c)
	role := model.RoleUnknown
	if sess.IsAuthenticated() {
		role = sess.Role()
	}

	routes := make([]gin.H, 0, len(navigation.Routes))
	for _, r := range navigation.Routes {
		if r.Pattern == "/" {
			continue
		}
		if !r.Public && (!sess.IsAuthenticated() || !navigation.Allowed(role, r.Pattern)) {
			continue
		}
		routes = append(routes, gin.H{"path": r.Pattern, "view": r.View, "public": r.Public})
	}
	response.Success(c, http.StatusOK, gin.H{"routes": routes})
}
