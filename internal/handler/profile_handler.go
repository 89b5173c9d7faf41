package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/response"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/validator"
)

// ProfileHandler serves the signed-in user's profile.
type ProfileHandler struct {
	profileService *service.ProfileService
	log            zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		log:            log.With().Str("component", "profile_handler").Logger(),
	}
}

// Get godoc
// GET /api/profile
// Returns the profile with its certificates, courses, events and achievements.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Update godoc
// PUT /api/profile
// Saves the editable profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req model.ProfileUpdate
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.profileService.Update(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}
