package handler

import (
	"net/http"

	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/study"
)

type MessageHandler struct {
	relay   *study.MessageRelay
	manager *study.Manager
}

func NewMessageHandler(relay *study.MessageRelay, manager *study.Manager) *MessageHandler {
	return &MessageHandler{relay: relay, manager: manager}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	msgs, err := h.relay.Fetch(*p, r.URL.Query().Get("owner"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

type sendMessageInput struct {
	Body  string `json:"body"`
	Owner string `json:"owner"`
}

// Send writes one message and returns the re-fetched thread, so the
// caller sees consistent post-write state rather than a local append.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	var input sendMessageInput
	err := decodeJSON(r, &input)
	if err != nil {
		respondError(w, err)
		return
	}

	msgs, err := h.relay.Send(*p, input.Body, input.Owner)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"messages": msgs})
}

type markReadInput struct {
	Owner string `json:"owner"`
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	var input markReadInput
	// Body is optional for participants; ignore decode failures on empty bodies.
	_ = decodeJSON(r, &input)

	err := h.relay.MarkRead(*p, input.Owner)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Unread reports the caller's unread admin-message count through their
// session poller: a store failure degrades to the last-known count
// instead of erroring.
func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	count := h.manager.Poller(*p).Poll()
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}
