package handler

import (
	"bytes"
	"context"
	"net/http"

	"tablekart/internal/auth"
	"tablekart/internal/csvio"
	"tablekart/internal/middleware"
	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles the owner's product management.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

var productFilters = map[string]func(string) (any, error){
	"category":  uuidFilter,
	"available": boolFilter,
	"archived":  boolFilter,
}

// tenant returns the restaurant the request was scoped to by the tenant
// middleware.
func tenant(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*model.Restaurant, bool) {
	restaurant, ok := middleware.RestaurantFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, model.ErrCodeRestaurantNotFound, "Create your restaurant first", logger)
		return nil, false
	}
	return restaurant, true
}

// principal returns the authenticated caller.
func principal(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required", logger)
		return nil, false
	}
	return p, true
}

// List handles GET /api/dashboard/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	q, ok := listOrError(w, r, productFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), restaurant.ID, q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stats handles GET /api/dashboard/products/stats.
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), restaurant.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetByID handles GET /api/dashboard/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), restaurant.ID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/dashboard/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	var req model.ProductRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	product, err := h.service.Create(r.Context(), restaurant.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/dashboard/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.ProductRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	product, err := h.service.Update(r.Context(), restaurant.ID, id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// SetAvailable handles PUT /api/dashboard/products/{id}/available.
func (h *ProductHandler) SetAvailable(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.SetAvailable)
}

// SetArchived handles PUT /api/dashboard/products/{id}/archived.
func (h *ProductHandler) SetArchived(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.SetArchived)
}

func (h *ProductHandler) toggle(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, restaurantID, id uuid.UUID, value bool) error) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req toggleRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := set(r.Context(), restaurant.ID, id, *req.Value); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/dashboard/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), restaurant.ID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/dashboard/products/export?delimiter=.
func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	delim, ok := csvDelimiter(r)
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, csvio.ErrInvalidDelimiter.Error(), h.logger)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), restaurant.ID, &buf, delim); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	csvHeaders(w, "products")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
