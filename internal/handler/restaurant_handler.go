package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// RestaurantHandler handles the owner's restaurant, its settings and its
// subscription status.
type RestaurantHandler struct {
	restaurants   service.RestaurantService
	subscriptions service.SubscriptionService
	logger        zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(restaurants service.RestaurantService, subscriptions service.SubscriptionService, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants:   restaurants,
		subscriptions: subscriptions,
		logger:        logger.With().Str("handler", "restaurant").Logger(),
	}
}

// Mine handles GET /api/dashboard/restaurant.
func (h *RestaurantHandler) Mine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	restaurant, err := h.restaurants.GetByOwner(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

// Create handles POST /api/dashboard/restaurant.
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	var req model.RestaurantSettings
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	restaurant, err := h.restaurants.Create(r.Context(), p.UserID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("restaurant_id", restaurant.ID.String()).
		Str("owner_id", p.UserID.String()).
		Str("slug", restaurant.Slug).
		Msg("restaurant created")
	writeJSON(w, http.StatusCreated, restaurant)
}

// UpdateSettings handles PUT /api/dashboard/restaurant.
func (h *RestaurantHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	var req model.RestaurantSettings
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	updated, err := h.restaurants.UpdateSettings(r.Context(), restaurant.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Subscription handles GET /api/dashboard/subscription.
func (h *RestaurantHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	status, err := h.subscriptions.Status(r.Context(), restaurant.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Plans handles GET /api/dashboard/plans, the plans an owner can choose.
func (h *RestaurantHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptions.ListPlans(r.Context(), true)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}
