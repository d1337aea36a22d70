package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles the owner's order board.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

var orderFilters = map[string]func(string) (any, error){
	"status":   stringFilter,
	"type":     stringFilter,
	"customer": uuidFilter,
}

// List handles GET /api/dashboard/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	q, ok := listOrError(w, r, orderFilters, h.logger)
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

// Stats handles GET /api/dashboard/orders/stats.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
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

// GetByID handles GET /api/dashboard/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), restaurant.ID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/dashboard/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.OrderStatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), restaurant.ID, id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
