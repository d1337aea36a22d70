package repository

import (
	"context"
	"errors"
	"fmt"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ticketRepository implements the TicketRepository interface using PostgreSQL.
type ticketRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTicketRepository creates a new PostgreSQL-backed support ticket repository.
func NewTicketRepository(pool *pgxpool.Pool, logger zerolog.Logger) TicketRepository {
	return &ticketRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "ticket").Logger(),
	}
}

func scanTicket(row pgx.Row) (model.SupportTicket, error) {
	var t model.SupportTicket
	err := row.Scan(&t.ID, &t.RestaurantID, &t.UserID, &t.Subject, &t.Message, &t.Priority,
		&t.Status, &t.Response, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// GetByID retrieves a ticket by its ID.
func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	t, err := scanTicket(r.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, user_id, subject, message, priority, status, response, created_at, updated_at
		FROM support_tickets
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("ticket_id", id.String()).Msg("failed to query ticket")
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return &t, nil
}

// Create inserts a ticket.
func (r *ticketRepository) Create(ctx context.Context, t *model.SupportTicket) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO support_tickets (id, restaurant_id, user_id, subject, message, priority,
			status, response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, t.RestaurantID, t.UserID, t.Subject, t.Message, t.Priority, t.Status, t.Response, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", t.RestaurantID.String()).Msg("failed to create ticket")
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// Update sets the status and, when given, the response.
func (r *ticketRepository) Update(ctx context.Context, id uuid.UUID, status model.TicketStatus, response *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE support_tickets
		SET status = $2, response = COALESCE($3, response), updated_at = NOW()
		WHERE id = $1
	`, id, status, response)
	if err != nil {
		r.logger.Error().Err(err).Str("ticket_id", id.String()).Msg("failed to update ticket")
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// List returns a page of tickets.
func (r *ticketRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error) {
	page, err := listing.Fetch(ctx, r.pool, ticketTable, q, scanTicket)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list tickets")
	}
	return page, err
}

// Stats returns ticket counts by status, for one restaurant when given.
func (r *ticketRepository) Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error) {
	var s model.TicketStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status = 'closed')
		FROM support_tickets
		WHERE $1::uuid IS NULL OR restaurant_id = $1
	`, restaurantID).Scan(&s.Total, &s.Open, &s.InProgress, &s.Resolved, &s.Closed)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query ticket stats")
		return s, fmt.Errorf("failed to query ticket stats: %w", err)
	}
	return s, nil
}
