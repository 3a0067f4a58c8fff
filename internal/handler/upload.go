package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/service"
)

// maxUploadBody bounds one multipart request: 3 photos at 5MB plus
// form overhead.
const maxUploadBody = 16 << 20

type UploadHandler struct {
	uploads *service.UploadService
}

func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Create accepts up to 3 photos for a week. A partially failed batch
// still succeeds with per-file failures reported.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	err := r.ParseMultipartForm(maxUploadBody)
	if err != nil {
		respondError(w, apperr.NewValidationError(apperr.FieldError{Field: "body", Reason: "malformed multipart form"}))
		return
	}

	week := 0
	if v := r.FormValue("week"); v != "" {
		week, err = strconv.Atoi(v)
		if err != nil {
			respondError(w, apperr.NewValidationError(apperr.FieldError{Field: "week", Reason: "must be a number"}))
			return
		}
	}
	consent := r.FormValue("consent") == "true"
	notes := r.FormValue("notes")

	files := r.MultipartForm.File["files"]
	result, err := h.uploads.Submit(*p, week, consent, notes, files)

	var partial *apperr.PartialBatchError
	if errors.As(err, &partial) {
		respondJSON(w, http.StatusCreated, uploadResultBody(result))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, uploadResultBody(result))
}

func uploadResultBody(result *service.UploadResult) map[string]any {
	failed := make([]map[string]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, map[string]string{
			"name":  f.Name,
			"error": f.Err.Error(),
		})
	}
	return map[string]any{
		"saved":  result.Saved,
		"failed": failed,
	}
}

// List returns uploads with signed blob URLs, filtered with ?week=.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	week := 0
	if v := r.URL.Query().Get("week"); v != "" {
		var err error
		week, err = strconv.Atoi(v)
		if err != nil {
			respondError(w, apperr.NewValidationError(apperr.FieldError{Field: "week", Reason: "must be a number"}))
			return
		}
	}

	views, err := h.uploads.List(*p, r.URL.Query().Get("owner"), week)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"uploads": views})
}
