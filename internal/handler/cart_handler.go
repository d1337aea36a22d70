package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Cart session transport. Browsers use the cookie, other clients the header.
const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
)

// CartHandler handles the public session cart and checkout of one
// restaurant's menu.
type CartHandler struct {
	carts  service.CartService
	orders service.OrderService
	menu   service.MenuService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, orders service.OrderService, menu service.MenuService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		orders: orders,
		menu:   menu,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// session returns the caller's cart session, starting a new one when the
// request carries none or an unparsable one.
func session(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(CartSessionHeader)
	if id == "" {
		if c, err := r.Cookie(CartSessionCookie); err == nil {
			id = c.Value
		}
	}
	if _, err := uuid.Parse(id); err == nil {
		w.Header().Set(CartSessionHeader, id)
		return id
	}

	id = uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CartSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(CartSessionHeader, id)
	return id
}

// Get handles GET .../cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}

	view, err := h.carts.Get(r.Context(), restaurant.ID, session(w, r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Add handles POST .../cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}
	var req model.CartAddRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.carts.Add(r.Context(), restaurant.ID, session(w, r), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateQuantity handles PUT .../cart/items/{key}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}
	var req model.CartQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.carts.UpdateQuantity(r.Context(), restaurant.ID, session(w, r), mux.Vars(r)["key"], req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Remove handles DELETE .../cart/items/{key}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}

	view, err := h.carts.Remove(r.Context(), restaurant.ID, session(w, r), mux.Vars(r)["key"])
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE .../cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}

	view, err := h.carts.Clear(r.Context(), restaurant.ID, session(w, r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearLastAdded handles DELETE .../cart/last-added, dismissing the
// "added to cart" confirmation.
func (h *CartHandler) ClearLastAdded(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}

	view, err := h.carts.ClearLastAdded(r.Context(), restaurant.ID, session(w, r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Checkout handles POST .../checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.menu, h.logger)
	if !ok {
		return
	}
	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.orders.Checkout(r.Context(), restaurant.ID, session(w, r), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("restaurant_id", restaurant.ID.String()).
		Msg("order placed")
	writeJSON(w, http.StatusCreated, order)
}
