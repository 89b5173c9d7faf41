package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/navigation"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
)

// PageHandler serves the list pages: courses, tickets, semesters and the rest
// of the page catalogue.
type PageHandler struct {
	pageService    *service.PageService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(pageService *service.PageService, maxUploadBytes int64, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		pageService:    pageService,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "page_handler").Logger(),
	}
}

// definition resolves :page and applies the page's route rules.
func (h *PageHandler) definition(c *gin.Context) (page.Definition, bool) {
	def, ok := page.Lookup(c.Param("page"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return page.Definition{}, false
	}
	if !middleware.AllowPath(c, def.Route) {
		return page.Definition{}, false
	}
	return def, true
}

// Catalogue godoc
// GET /api/pages
// Lists the pages the session may mount.
func (h *PageHandler) Catalogue(c *gin.Context) {
	sess := middleware.GetSession(c)
	role := sess.Role()

	pages := make([]gin.H, 0, len(page.Definitions))
	for _, name := range page.Names() {
		d := page.Definitions[name]
		if !navigation.Allowed(role, d.Route) {
			continue
		}
		pages = append(pages, gin.H{"name": d.Name, "route": d.Route, "upload": d.FileField != ""})
	}
	response.Success(c, http.StatusOK, gin.H{"pages": pages})
}

// Mount godoc
// GET /api/pages/:page
// Mounts a fresh controller for the page and returns its loaded items. A
// failed load returns the error and leaves an empty list mounted.
func (h *PageHandler) Mount(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}

	view, err := h.pageService.Mount(c.Request.Context(), middleware.GetSession(c), def)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Unmount godoc
// DELETE /api/pages/:page
// Closes the page's controller. In-flight loads of that page are discarded.
func (h *PageHandler) Unmount(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}

	if err := h.pageService.Unmount(middleware.GetSession(c), def.Name); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.NoContent(c)
}

// Create godoc
// POST /api/pages/:page
// Creates a record and appends the server's copy to the mounted list.
// Upload pages accept multipart/form-data with the page's file field.
func (h *PageHandler) Create(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	body, files, ok := readBody(c, def.FileField, h.maxUploadBytes)
	if !ok {
		return
	}

	ctrl, err := h.pageService.Controller(c.Request.Context(), middleware.GetSession(c), def)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := ctrl.Create(c.Request.Context(), body, files)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"record": rec, "items": ctrl.Snapshot().Items})
}

// Update godoc
// PUT /api/pages/:page/:id
// Applies a partial update and replaces the record in the mounted list.
func (h *PageHandler) Update(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	body, files, ok := readBody(c, def.FileField, h.maxUploadBytes)
	if !ok {
		return
	}

	ctrl, err := h.pageService.Controller(c.Request.Context(), middleware.GetSession(c), def)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := ctrl.Update(c.Request.Context(), id, body, files)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"record": rec, "items": ctrl.Snapshot().Items})
}

// Remove godoc
// DELETE /api/pages/:page/:id
// Deletes a record and drops it from the mounted list.
func (h *PageHandler) Remove(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctrl, err := h.pageService.Controller(c.Request.Context(), middleware.GetSession(c), def)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := ctrl.Remove(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": ctrl.Snapshot().Items})
}
