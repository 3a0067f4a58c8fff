package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/study"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Validation
// failures carry every failing field; isolation violations are already
// security-logged at the data boundary and surface as a bare 403.
func respondError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrAuthenticationRequired):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	case errors.Is(err, apperr.ErrIsolationViolation):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, study.ErrSaveInFlight):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "a save is already in progress"})
	case errors.Is(err, study.ErrBreakerTripped):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "auto-save disabled, re-authenticate to resume"})
	case errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrUploadNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, apperr.ErrTransientIO):
		slog.Error("store unavailable", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	default:
		slog.Error("unhandled error", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return apperr.NewValidationError(apperr.FieldError{Field: "body", Reason: "malformed json"})
	}
	return nil
}
