package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rajat93105-cell/pbl-project/internal/services"
)

// WishlistHandler handles the caller's saved products.
type WishlistHandler struct {
	service services.WishlistServiceProvider
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service services.WishlistServiceProvider) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// List returns the caller's saved products.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	products, err := h.service.GetWishlist(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "Failed to retrieve wishlist")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Add saves a product for the caller.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if _, err := h.service.AddToWishlist(r.Context(), user.ID, chi.URLParam(r, "product_id")); err != nil {
		writeError(w, r, err, "Failed to add to wishlist")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Added to wishlist"})
}

// Remove drops a saved product.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveFromWishlist(r.Context(), user.ID, chi.URLParam(r, "product_id")); err != nil {
		writeError(w, r, err, "Failed to remove from wishlist")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Removed from wishlist"})
}

// Check reports whether the caller saved a product.
func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	in, err := h.service.IsInWishlist(r.Context(), user.ID, chi.URLParam(r, "product_id"))
	if err != nil {
		writeError(w, r, err, "Failed to check wishlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"in_wishlist": in})
}
