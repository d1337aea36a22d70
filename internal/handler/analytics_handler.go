package handler

import (
	"net/http"

	"tablekart/internal/model"
	"tablekart/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler serves the owner dashboard figures.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// Summary handles GET /api/dashboard/analytics?from=&to=.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}

	values := r.URL.Query()
	from, err := timeParam(values.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid from parameter", h.logger)
		return
	}
	to, err := timeParam(values.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid to parameter", h.logger)
		return
	}

	summary, err := h.service.Summary(r.Context(), restaurant.ID, from, to)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
