package handlers

import (
	"net/http"

	"github.com/rajat93105-cell/pbl-project/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for profile management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateProfile renames the caller. The new name arrives as a query parameter.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateName(r.Context(), user.ID, r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, r, err, "Failed to update profile")
		return
	}

	log.Info().Str("user_id", user.ID).Msg("Profile updated")
	writeJSON(w, http.StatusOK, updated)
}
