package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles the owner's menu categories.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/dashboard/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	categories, err := h.service.List(r.Context(), restaurant.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/dashboard/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.Create(r.Context(), restaurant.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/dashboard/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.Update(r.Context(), restaurant.ID, id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/dashboard/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
