package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles the superadmin console: restaurants, users,
// subscriptions and plans.
type AdminHandler struct {
	restaurants   service.RestaurantService
	users         service.UserService
	subscriptions service.SubscriptionService
	logger        zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(restaurants service.RestaurantService, users service.UserService, subscriptions service.SubscriptionService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		restaurants:   restaurants,
		users:         users,
		subscriptions: subscriptions,
		logger:        logger.With().Str("handler", "admin").Logger(),
	}
}

var (
	restaurantFilters = map[string]func(string) (any, error){
		"active": boolFilter,
		"owner":  uuidFilter,
	}
	userFilters = map[string]func(string) (any, error){
		"role": stringFilter,
	}
	subscriptionFilters = map[string]func(string) (any, error){
		"status":     stringFilter,
		"plan":       uuidFilter,
		"restaurant": uuidFilter,
	}
)

// ListRestaurants handles GET /api/admin/restaurants.
func (h *AdminHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q, ok := listOrError(w, r, restaurantFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.restaurants.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// RestaurantStats handles GET /api/admin/restaurants/stats.
func (h *AdminHandler) RestaurantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.restaurants.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SetRestaurantActive handles PUT /api/admin/restaurants/{id}/active.
func (h *AdminHandler) SetRestaurantActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req toggleRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.restaurants.SetActive(r.Context(), id, *req.Value); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteRestaurant handles DELETE /api/admin/restaurants/{id}.
func (h *AdminHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.restaurants.Delete(r.Context(), p.Token, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().Str("restaurant_id", id.String()).Str("by", p.UserID.String()).Msg("restaurant deleted")
	w.WriteHeader(http.StatusNoContent)
}

// TransferRestaurant handles POST /api/admin/restaurants/{id}/transfer.
func (h *AdminHandler) TransferRestaurant(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.TransferOwnershipRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.restaurants.TransferOwnership(r.Context(), p.Token, id, req.NewOwnerEmail); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q, ok := listOrError(w, r, userFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.users.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UserStats handles GET /api/admin/users/stats.
func (h *AdminHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Create(r.Context(), p.Token, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), p.Token, p.UserID, id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSubscriptions handles GET /api/admin/subscriptions.
func (h *AdminHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	q, ok := listOrError(w, r, subscriptionFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.subscriptions.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SubscriptionStats handles GET /api/admin/subscriptions/stats.
func (h *AdminHandler) SubscriptionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.subscriptions.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CreateSubscription handles POST /api/admin/subscriptions.
func (h *AdminHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req model.SubscriptionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	sub, err := h.subscriptions.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// RenewSubscription handles POST /api/admin/subscriptions/{id}/renew.
func (h *AdminHandler) RenewSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.RenewRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	sub, err := h.subscriptions.Renew(r.Context(), id, req.DurationMonths)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// CancelSubscription handles POST /api/admin/subscriptions/{id}/cancel.
func (h *AdminHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	sub, err := h.subscriptions.Cancel(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ListPlans handles GET /api/admin/plans, inactive plans included.
func (h *AdminHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptions.ListPlans(r.Context(), false)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// CreatePlan handles POST /api/admin/plans.
func (h *AdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req model.PlanRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	plan, err := h.subscriptions.CreatePlan(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// UpdatePlan handles PUT /api/admin/plans/{id}.
func (h *AdminHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.PlanRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	plan, err := h.subscriptions.UpdatePlan(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// SetPlanActive handles PUT /api/admin/plans/{id}/active.
func (h *AdminHandler) SetPlanActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req toggleRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.subscriptions.SetPlanActive(r.Context(), id, *req.Value); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
