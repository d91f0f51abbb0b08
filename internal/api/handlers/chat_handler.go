package handlers

import (
	"net/http"

	"github.com/rajat93105-cell/pbl-project/internal/services"
)

// ChatHandler exposes the seller assistant.
type ChatHandler struct {
	service services.ChatServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service services.ChatServiceProvider) *ChatHandler {
	return &ChatHandler{service: service}
}

// ChatPayload is the body of a chat request.
type ChatPayload struct {
	Message string `json:"message"`
}

// Send forwards the caller's message to the assistant.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var payload ChatPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	reply, err := h.service.Chat(r.Context(), user, payload.Message)
	if err != nil {
		writeError(w, r, err, "Failed to process chat message")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// History returns the caller's recent exchanges.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err, "Invalid query")
		return
	}
	if r.URL.Query().Has("limit") && limit == 0 {
		limit = -1
	}

	history, err := h.service.GetHistory(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, r, err, "Failed to retrieve chat history")
		return
	}
	writeJSON(w, http.StatusOK, history)
}
