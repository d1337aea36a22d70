package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ticketService struct {
	ticketRepo repository.TicketRepository
	publisher  realtime.Publisher
	logger     zerolog.Logger
}

// NewTicketService creates a new support ticket service.
func NewTicketService(ticketRepo repository.TicketRepository, publisher realtime.Publisher, logger zerolog.Logger) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		publisher:  publisher,
		logger:     logger.With().Str("service", "ticket").Logger(),
	}
}

func (s *ticketService) Create(ctx context.Context, restaurantID, userID uuid.UUID, req *model.TicketRequest) (*model.SupportTicket, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := time.Now()
	ticket := &model.SupportTicket{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		UserID:       userID,
		Subject:      strings.TrimSpace(req.Subject),
		Message:      strings.TrimSpace(req.Message),
		Priority:     priority,
		Status:       model.TicketOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.logger.Info().
		Str("ticket_id", ticket.ID.String()).
		Str("restaurant_id", restaurantID.String()).
		Str("priority", priority).
		Msg("ticket created")
	s.notify(ctx, realtime.TicketCreated, ticket)

	return ticket, nil
}

func (s *ticketService) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, model.ErrNotFound
	}
	return ticket, nil
}

func (s *ticketService) Update(ctx context.Context, id uuid.UUID, req *model.TicketUpdateRequest) (*model.SupportTicket, error) {
	if err := s.ticketRepo.Update(ctx, id, req.Status, req.Response); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("ticket_id", id.String()).Str("status", string(req.Status)).Msg("ticket updated")
	s.notify(ctx, realtime.TicketUpdated, ticket)

	return ticket, nil
}

func (s *ticketService) List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error) {
	page, err := s.ticketRepo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list tickets: %w", err)
	}
	return page, nil
}

func (s *ticketService) Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error) {
	stats, err := s.ticketRepo.Stats(ctx, restaurantID)
	if err != nil {
		return stats, fmt.Errorf("failed to get ticket stats: %w", err)
	}
	return stats, nil
}

func (s *ticketService) notify(ctx context.Context, eventType string, t *model.SupportTicket) {
	event := realtime.NewEvent(realtime.TopicTickets, eventType, t.RestaurantID, t.ID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("ticket_id", t.ID.String()).Msg("failed to publish ticket event")
	}
}
