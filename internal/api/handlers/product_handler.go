package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rajat93105-cell/pbl-project/internal/models"
	"github.com/rajat93105-cell/pbl-project/internal/services"
	"github.com/rs/zerolog/log"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service services.ProductServiceProvider
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider) *ProductHandler {
	return &ProductHandler{service: service}
}

func parseProductFilter(r *http.Request) (models.ProductFilter, error) {
	q := r.URL.Query()
	f := models.ProductFilter{
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
		Search:    q.Get("search"),
	}

	var err error
	if f.Page, err = queryInt(r, "page"); err != nil {
		return f, err
	}
	if q.Has("page") && f.Page == 0 {
		f.Page = -1 // an explicit 0 is out of range, not "use the default"
	}
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	if q.Has("limit") && f.Limit == 0 {
		f.Limit = -1
	}
	if f.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		return f, err
	}
	if f.ExcludeSold, err = queryBool(r, "exclude_sold"); err != nil {
		return f, err
	}
	return f, nil
}

// List handles paginated, filtered catalog browsing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		writeError(w, r, err, "Invalid query")
		return
	}

	page, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Failed to retrieve products")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Categories returns the fixed category enumeration.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": models.Categories})
}

// Conditions returns the fixed condition enumeration.
func (h *ProductHandler) Conditions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"conditions": models.Conditions})
}

// Get handles the request to get a single product by its ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to retrieve product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// BySeller lists a seller's products, newest first.
func (h *ProductHandler) BySeller(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProductsBySeller(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, r, err, "Failed to retrieve seller products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles the request to list a new product for sale.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in models.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err, "Failed to create product")
		return
	}

	log.Info().Str("user_id", user.ID).Str("product_id", product.ID).Msg("Product listed")
	writeJSON(w, http.StatusOK, product)
}

// Update handles a partial update of an owned product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var up models.ProductUpdate
	if !decodeJSON(w, r, &up) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), user, chi.URLParam(r, "id"), up)
	if err != nil {
		writeError(w, r, err, "Failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// MarkSold flags an owned product as sold.
func (h *ProductHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.MarkSold(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "Failed to mark product as sold")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product marked as sold"})
}

// Delete removes an owned product and its wishlist entries.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteProduct(r.Context(), user, id); err != nil {
		writeError(w, r, err, "Failed to delete product")
		return
	}

	log.Info().Str("user_id", user.ID).Str("product_id", id).Msg("Product deleted")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
