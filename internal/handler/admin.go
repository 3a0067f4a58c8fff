package handler

import (
	"net/http"

	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Participants(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	users, err := h.admin.Participants(*p)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"participants": users})
}

type advanceInput struct {
	Owner  string       `json:"owner"`
	Status model.Status `json:"status"`
	Week   *int         `json:"week"`
}

// Advance is the administrator-driven trigger into week_active and
// study_complete; the status engine only ever preserves these states.
func (h *AdminHandler) Advance(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	var input advanceInput
	err := decodeJSON(r, &input)
	if err != nil {
		respondError(w, err)
		return
	}

	prof, err := h.admin.Advance(*p, input.Owner, input.Status, input.Week)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profileResponse{Profile: prof})
}
