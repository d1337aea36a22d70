package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"
	"tablekart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultHeartbeat is how often an idle event stream sends a heartbeat.
const DefaultHeartbeat = 30 * time.Second

// TicketHandler handles support tickets for owners and superadmins.
type TicketHandler struct {
	service   service.TicketService
	hub       *realtime.Hub
	heartbeat time.Duration
	logger    zerolog.Logger
}

// NewTicketHandler creates a new ticket handler. The hub feeds the ticket
// event streams.
func NewTicketHandler(service service.TicketService, hub *realtime.Hub, logger zerolog.Logger) *TicketHandler {
	return &TicketHandler{
		service:   service,
		hub:       hub,
		heartbeat: DefaultHeartbeat,
		logger:    logger.With().Str("handler", "ticket").Logger(),
	}
}

var ticketFilters = map[string]func(string) (any, error){
	"status":     stringFilter,
	"priority":   stringFilter,
	"restaurant": uuidFilter,
}

var ownerTicketFilters = map[string]func(string) (any, error){
	"status":   stringFilter,
	"priority": stringFilter,
}

// Create handles POST /api/dashboard/tickets.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}
	var req model.TicketRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	ticket, err := h.service.Create(r.Context(), restaurant.ID, p.UserID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

// ListMine handles GET /api/dashboard/tickets.
func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	q, ok := listOrError(w, r, ownerTicketFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), q.WithFilter("restaurant", restaurant.ID))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// StreamMine handles GET /api/dashboard/tickets/stream.
func (h *TicketHandler) StreamMine(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := tenant(w, r, h.logger)
	if !ok {
		return
	}
	q, ok := listOrError(w, r, ownerTicketFilters, h.logger)
	if !ok {
		return
	}
	h.stream(w, r, q.WithFilter("restaurant", restaurant.ID), &restaurant.ID)
}

// List handles GET /api/admin/tickets.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := listOrError(w, r, ticketFilters, h.logger)
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Stream handles GET /api/admin/tickets/stream.
func (h *TicketHandler) Stream(w http.ResponseWriter, r *http.Request) {
	q, ok := listOrError(w, r, ticketFilters, h.logger)
	if !ok {
		return
	}
	h.stream(w, r, q, nil)
}

// Stats handles GET /api/admin/tickets/stats.
func (h *TicketHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), nil)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetByID handles GET /api/admin/tickets/{id}.
func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	ticket, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// Update handles PUT /api/admin/tickets/{id}.
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req model.TicketUpdateRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	ticket, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// stream sends the ticket page for q as a "tickets" event, then sends it
// again after every ticket change. Events from other restaurants are
// ignored when scope is set.
func (h *TicketHandler) stream(w http.ResponseWriter, r *http.Request, q listing.Query, scope *uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "Streaming unsupported", h.logger)
		return
	}

	// The server write timeout would otherwise end the stream.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sub := h.hub.Subscribe(realtime.TopicTickets, 0)
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	send := func() bool {
		page, err := h.service.List(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			h.logger.Error().Err(err).Msg("failed to refresh ticket stream")
			return writeEvent(w, flusher, "error", model.ErrorResponse{
				Error:   model.ErrCodeInternalError,
				Message: "Failed to load tickets",
			}) == nil
		}
		return writeEvent(w, flusher, "tickets", page) == nil
	}

	if !send() {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-sub.C:
			if !open {
				return
			}
			if scope != nil && ev.RestaurantID != *scope {
				continue
			}
			if !send() {
				return
			}
		case <-heartbeat.C:
			if _, err := io.WriteString(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one server-sent event with a JSON payload.
func writeEvent(w io.Writer, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
