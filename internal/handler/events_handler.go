package handler

import (
	"net/http"
	"time"

	"tablekart/internal/model"
	"tablekart/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventsHandler accepts change notifications from other services, such as
// database triggers, and publishes them to realtime subscribers.
type EventsHandler struct {
	publisher realtime.Publisher
	logger    zerolog.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(publisher realtime.Publisher, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		publisher: publisher,
		logger:    logger.With().Str("handler", "events").Logger(),
	}
}

type eventRequest struct {
	Type         string    `json:"type" validate:"required,max=64"`
	Topic        string    `json:"topic" validate:"required,oneof=orders support_tickets products"`
	RestaurantID uuid.UUID `json:"restaurantId" validate:"required"`
	EntityID     uuid.UUID `json:"entityId"`
}

// Publish handles POST /api/internal/events.
func (h *EventsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	ev := realtime.Event{
		Type:         req.Type,
		Topic:        req.Topic,
		RestaurantID: req.RestaurantID,
		EntityID:     req.EntityID,
		At:           time.Now().UTC(),
	}
	if err := h.publisher.Publish(r.Context(), ev); err != nil {
		h.logger.Error().Err(err).Str("topic", ev.Topic).Str("type", ev.Type).Msg("failed to publish event")
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "Failed to publish event", h.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
