package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/study"
)

type ProfileHandler struct {
	profiles repository.ProfileRepository
	manager  *study.Manager
	validate *validator.Validate
}

func NewProfileHandler(profiles repository.ProfileRepository, manager *study.Manager) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		manager:  manager,
		validate: validator.New(),
	}
}

type profileResponse struct {
	Profile      *model.Profile `json:"profile"`
	WasFirstSave bool           `json:"was_first_save,omitempty"`
}

// Get returns the caller's profile; an administrator may read any
// participant's with ?owner=.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	prof, err := h.profiles.ByOwner(*p, r.URL.Query().Get("owner"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profileResponse{Profile: prof})
}

// Save applies a partial update through the caller's sync coordinator,
// which merges, re-derives status, and enforces at-most-one-in-flight.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	var patch model.ProfilePatch
	err := decodeJSON(r, &patch)
	if err != nil {
		respondError(w, err)
		return
	}
	err = h.validate.Struct(patch)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ve := apperr.NewValidationError()
			for _, fe := range verrs {
				ve.Add(fe.Field(), "is invalid")
			}
			respondError(w, ve)
			return
		}
		respondError(w, err)
		return
	}

	result, err := h.manager.Coordinator(*p).Save(patch)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.WasFirstSave {
		status = http.StatusCreated
	}
	respondJSON(w, status, profileResponse{
		Profile:      result.Profile,
		WasFirstSave: result.WasFirstSave,
	})
}
