package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/resource"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/validator"
)

// ScholarshipHandler serves the per-user scholarship record form.
type ScholarshipHandler struct {
	pageService *service.PageService
	log         zerolog.Logger
}

// NewScholarshipHandler creates a new ScholarshipHandler.
func NewScholarshipHandler(pageService *service.PageService, log zerolog.Logger) *ScholarshipHandler {
	return &ScholarshipHandler{
		pageService: pageService,
		log:         log.With().Str("component", "scholarship_handler").Logger(),
	}
}

// Get godoc
// GET /api/scholarship
// Mounts the form. Mode is "edit" with the current record when one exists,
// "create" otherwise.
func (h *ScholarshipHandler) Get(c *gin.Context) {
	view, err := h.pageService.MountScholarship(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Create godoc
// POST /api/scholarship
// Creates the record. Refused with 409 when the user already has one.
func (h *ScholarshipHandler) Create(c *gin.Context) {
	var req model.ScholarshipStudent
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	req.ID = ""

	form, err := h.pageService.Scholarship(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := form.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"record": rec, "mode": form.Snapshot().Mode})
}

// Save godoc
// PUT /api/scholarship
// Creates the record in create mode and updates it in edit mode.
func (h *ScholarshipHandler) Save(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		failBody(c, err)
		return
	}

	form, err := h.pageService.Scholarship(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, mode, err := form.Save(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if mode == resource.ModeCreate {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"record": rec, "mode": form.Snapshot().Mode})
}

// ReportHandler serves the student report page.
type ReportHandler struct {
	pageService *service.PageService
	log         zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(pageService *service.PageService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		pageService: pageService,
		log:         log.With().Str("component", "report_handler").Logger(),
	}
}

// Form godoc
// GET /api/reports/form
// Mounts the report page, loading the selectable records and the existing
// reports concurrently.
func (h *ReportHandler) Form(c *gin.Context) {
	view, err := h.pageService.MountReportForm(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Submit godoc
// POST /api/reports
// Creates a report.
func (h *ReportHandler) Submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		failBody(c, err)
		return
	}

	form, err := h.pageService.ReportForm(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := form.Submit(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"record": rec, "reports": form.Snapshot().Reports})
}

// Edit godoc
// PUT /api/reports/:id
// Updates an existing report.
func (h *ReportHandler) Edit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		failBody(c, err)
		return
	}

	form, err := h.pageService.ReportForm(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := form.Edit(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"record": rec, "reports": form.Snapshot().Reports})
}

// AddItem godoc
// POST /api/reports/items/:kind
// Creates a course, note, difficulty, userAchievement, event or certificate
// and makes it selectable on the form right away.
func (h *ReportHandler) AddItem(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		failBody(c, err)
		return
	}

	form, err := h.pageService.ReportForm(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rec, err := form.AddOption(c.Request.Context(), c.Param("kind"), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"record": rec, "options": form.Snapshot().Options})
}
