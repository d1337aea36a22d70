package handler

import (
	"net/http"
	"strconv"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// MenuHandler serves public menus, addressed either by slug or by the
// restaurant's custom domain.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// resolveRestaurant finds the restaurant a public request addresses: the
// {slug} route variable when present, the Host header otherwise.
func resolveRestaurant(w http.ResponseWriter, r *http.Request, menu service.MenuService, logger zerolog.Logger) (*model.Restaurant, bool) {
	var (
		restaurant *model.Restaurant
		err        error
	)
	if slug, ok := mux.Vars(r)["slug"]; ok {
		restaurant, err = menu.BySlug(r.Context(), slug)
	} else {
		restaurant, err = menu.ByDomain(r.Context(), r.Host)
	}
	if err != nil {
		writeServiceError(w, err, logger)
		return nil, false
	}
	return restaurant, true
}

// Menu handles GET /api/public/menus/{slug} and /api/public/domain.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.service, h.logger)
	if !ok {
		return
	}

	menu, err := h.service.Menu(r.Context(), restaurant)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, menu)
}

// Products handles GET .../products?category=&page=&pageSize=.
func (h *MenuHandler) Products(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.service, h.logger)
	if !ok {
		return
	}

	values := r.URL.Query()
	var categoryID *uuid.UUID
	if raw := values.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "Invalid category format", h.logger)
			return
		}
		categoryID = &id
	}
	page, err := intParam(values.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid page parameter", h.logger)
		return
	}
	pageSize, err := intParam(values.Get("pageSize"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid pageSize parameter", h.logger)
		return
	}

	result, err := h.service.Products(r.Context(), restaurant.ID, categoryID, page, pageSize)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Product handles GET .../products/{id}.
func (h *MenuHandler) Product(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.service, h.logger)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	product, err := h.service.Product(r.Context(), restaurant.ID, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// QRCode handles GET .../qrcode?size=.
func (h *MenuHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := resolveRestaurant(w, r, h.service, h.logger)
	if !ok {
		return
	}
	size, err := intParam(r.URL.Query().Get("size"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid size parameter", h.logger)
		return
	}

	png, err := h.service.QRCode(restaurant, size)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
