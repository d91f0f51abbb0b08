package handlers

import (
	"net/http"

	"github.com/rajat93105-cell/pbl-project/internal/services"
)

// AnalyticsHandler serves the caller's seller dashboard.
type AnalyticsHandler struct {
	service services.AnalyticsServiceProvider
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service services.AnalyticsServiceProvider) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	overview, err := h.service.GetOverview(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "Failed to compute overview")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *AnalyticsHandler) CategoryDistribution(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	dist, err := h.service.GetCategoryDistribution(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "Failed to compute category distribution")
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

func (h *AnalyticsHandler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	sales, err := h.service.GetMonthlySales(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "Failed to compute monthly sales")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *AnalyticsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	top, err := h.service.GetTopProducts(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "Failed to compute top products")
		return
	}
	writeJSON(w, http.StatusOK, top)
}
