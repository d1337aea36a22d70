package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const subscriptionSelect = `
	SELECT s.id, s.restaurant_id, s.plan_id, p.name, s.duration_months,
		s.status, s.price, s.starts_at, s.ends_at, s.created_at
	FROM subscriptions s
	JOIN subscription_plans p ON p.id = s.plan_id
`

// subscriptionRepository implements the SubscriptionRepository interface using PostgreSQL.
type subscriptionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSubscriptionRepository creates a new PostgreSQL-backed subscription repository.
func NewSubscriptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SubscriptionRepository {
	return &subscriptionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "subscription").Logger(),
	}
}

func scanSubscription(row pgx.Row) (model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(&s.ID, &s.RestaurantID, &s.PlanID, &s.PlanName, &s.DurationMonths,
		&s.Status, &s.Price, &s.StartsAt, &s.EndsAt, &s.CreatedAt)
	return s, err
}

func (r *subscriptionRepository) getOne(ctx context.Context, query string, arg uuid.UUID) (*model.Subscription, error) {
	s, err := scanSubscription(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("id", arg.String()).Msg("failed to query subscription")
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}
	return &s, nil
}

// Latest returns the newest subscription of a restaurant.
func (r *subscriptionRepository) Latest(ctx context.Context, restaurantID uuid.UUID) (*model.Subscription, error) {
	return r.getOne(ctx, subscriptionSelect+` WHERE s.restaurant_id = $1 ORDER BY s.created_at DESC LIMIT 1`, restaurantID)
}

// GetByID retrieves a subscription by its ID.
func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	return r.getOne(ctx, subscriptionSelect+` WHERE s.id = $1`, id)
}

// Create inserts a subscription.
func (r *subscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, restaurant_id, plan_id, duration_months, status,
			price, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.RestaurantID, s.PlanID, s.DurationMonths, s.Status, s.Price, s.StartsAt, s.EndsAt, s.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", s.RestaurantID.String()).Msg("failed to create subscription")
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// Extend moves the end date, adds months and price, and reactivates the
// subscription.
func (r *subscriptionRepository) Extend(ctx context.Context, id uuid.UUID, endsAt time.Time, months int, price decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions
		SET ends_at = $2, duration_months = duration_months + $3, price = price + $4, status = 'active'
		WHERE id = $1
	`, id, endsAt, months, price)
	if err != nil {
		r.logger.Error().Err(err).Str("subscription_id", id.String()).Msg("failed to extend subscription")
		return fmt.Errorf("failed to extend subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetStatus overwrites the stored status.
func (r *subscriptionRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subscriptions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("subscription_id", id.String()).Msg("failed to update subscription status")
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// List returns a page of subscriptions across restaurants.
func (r *subscriptionRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error) {
	page, err := listing.Fetch(ctx, r.pool, subscriptionTable, q, scanSubscription)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list subscriptions")
	}
	return page, err
}

// Stats returns unfiltered subscription aggregates. Expiring soon means an
// active window ending within seven days of now.
func (r *subscriptionRepository) Stats(ctx context.Context, now time.Time) (model.SubscriptionStats, error) {
	var s model.SubscriptionStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('active', 'trial') AND ends_at > $1),
			COUNT(*) FILTER (WHERE status = 'expired' OR (status IN ('active', 'trial') AND ends_at <= $1)),
			COUNT(*) FILTER (WHERE status IN ('active', 'trial') AND ends_at > $1 AND ends_at <= $1 + INTERVAL '7 days'),
			COALESCE(SUM(price) FILTER (WHERE status <> 'cancelled'), 0)
		FROM subscriptions
	`, now).Scan(&s.Total, &s.Active, &s.Expired, &s.ExpiringSoon, &s.Revenue)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query subscription stats")
		return s, fmt.Errorf("failed to query subscription stats: %w", err)
	}
	return s, nil
}
