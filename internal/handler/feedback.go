package handler

import (
	"net/http"

	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/service"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
}

func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	var input service.FeedbackInput
	err := decodeJSON(r, &input)
	if err != nil {
		respondError(w, err)
		return
	}

	fb, err := h.feedback.Submit(*p, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	views, err := h.feedback.List(*p, r.URL.Query().Get("owner"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"feedback": views})
}
