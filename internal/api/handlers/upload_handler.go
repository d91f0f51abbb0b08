package handlers

import (
	"net/http"

	"github.com/rajat93105-cell/pbl-project/internal/services"
)

// UploadHandler hands out signed upload parameters.
type UploadHandler struct {
	service services.UploadServiceProvider
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service services.UploadServiceProvider) *UploadHandler {
	return &UploadHandler{service: service}
}

// Signature signs an upload into the requested folder.
func (h *UploadHandler) Signature(w http.ResponseWriter, r *http.Request) {
	sig, err := h.service.SignUpload(r.URL.Query().Get("folder"))
	if err != nil {
		writeError(w, r, err, "Failed to sign upload")
		return
	}
	writeJSON(w, http.StatusOK, sig)
}
