package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/validator"
)

// AdminHandler serves the staff dashboards and user management.
type AdminHandler struct {
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		log:          log.With().Str("component", "admin_handler").Logger(),
	}
}

// Summary godoc
// GET /api/admin/summary?category=reports
// Lists per-user statistics for one category. Defaults to users.
func (h *AdminHandler) Summary(c *gin.Context) {
	category, ok := model.ParseSummaryCategory(c.DefaultQuery("category", string(model.CategoryUsers)))
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownCategory)
		return
	}

	rows, err := h.adminService.Summary(c.Request.Context(), middleware.GetSession(c), category)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"category": category,
		"title":    category.Title(),
		"rows":     rows,
	})
}

// Overview godoc
// GET /api/admin/overview
// Returns the total of every summary category.
func (h *AdminHandler) Overview(c *gin.Context) {
	totals, err := h.adminService.Overview(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": totals})
}

// Users godoc
// GET /api/admin/users?role=Employee
// Lists accounts, optionally filtered by role.
func (h *AdminHandler) Users(c *gin.Context) {
	role := model.RoleUnknown
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		if role = model.ParseRole(raw); role == model.RoleUnknown {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"role": "unknown role " + raw})
			return
		}
	}

	users, err := h.adminService.Users(c.Request.Context(), middleware.GetSession(c), role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "roles": model.Roles})
}

// UpdateRole godoc
// PUT /api/admin/users/:id/role
// Changes a user's role and returns the refreshed user list.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	users, err := h.adminService.UpdateRole(c.Request.Context(), middleware.GetSession(c), id, model.ParseRole(req.Role))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}
