package repository

import (
	"context"
	"errors"
	"fmt"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const restaurantColumns = `id, owner_id, name, slug, custom_domain, description,
	phone, address, currency, logo_url, is_active, created_at, updated_at`

// restaurantRepository implements the RestaurantRepository interface using PostgreSQL.
type restaurantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool *pgxpool.Pool, logger zerolog.Logger) RestaurantRepository {
	return &restaurantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "restaurant").Logger(),
	}
}

func scanRestaurant(row pgx.Row) (model.Restaurant, error) {
	var r model.Restaurant
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Slug, &r.CustomDomain, &r.Description,
		&r.Phone, &r.Address, &r.Currency, &r.LogoURL, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *restaurantRepository) getOne(ctx context.Context, field string, where string, arg any) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE ` + where + ` LIMIT 1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Interface(field, arg).Msg("restaurant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Interface(field, arg).Msg("failed to query restaurant")
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}
	return &rest, nil
}

// GetByID retrieves a restaurant by its ID.
func (r *restaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return r.getOne(ctx, "restaurant_id", "id = $1", id)
}

// GetBySlug retrieves a restaurant by its public slug.
func (r *restaurantRepository) GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	return r.getOne(ctx, "slug", "slug = $1", slug)
}

// GetByDomain retrieves a restaurant by its custom domain.
func (r *restaurantRepository) GetByDomain(ctx context.Context, domain string) (*model.Restaurant, error) {
	return r.getOne(ctx, "domain", "lower(custom_domain) = lower($1)", domain)
}

// GetByOwner retrieves the oldest restaurant owned by a user.
func (r *restaurantRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE owner_id = $1 ORDER BY created_at LIMIT 1`

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("owner_id", ownerID.String()).Msg("failed to query restaurant by owner")
		return nil, fmt.Errorf("failed to query restaurant by owner: %w", err)
	}
	return &rest, nil
}

// SlugExists reports whether slug is taken by a restaurant other than exclude.
func (r *restaurantRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM restaurants WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to check slug")
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a restaurant.
func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, owner_id, name, slug, custom_domain, description,
			phone, address, currency, logo_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query, rest.ID, rest.OwnerID, rest.Name, rest.Slug, rest.CustomDomain,
		rest.Description, rest.Phone, rest.Address, rest.Currency, rest.LogoURL, rest.IsActive,
		rest.CreatedAt, rest.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		r.logger.Error().Err(err).Str("slug", rest.Slug).Msg("failed to create restaurant")
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// UpdateSettings writes the owner-editable fields.
func (r *restaurantRepository) UpdateSettings(ctx context.Context, rest *model.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $2, slug = $3, custom_domain = $4, description = $5,
			phone = $6, address = $7, currency = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, rest.ID, rest.Name, rest.Slug, rest.CustomDomain,
		rest.Description, rest.Phone, rest.Address, rest.Currency,
	).Scan(&rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrRestaurantNotFound
		}
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		r.logger.Error().Err(err).Str("restaurant_id", rest.ID.String()).Msg("failed to update restaurant")
		return fmt.Errorf("failed to update restaurant: %w", err)
	}
	return nil
}

// SetActive toggles whether the restaurant is served publicly.
func (r *restaurantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE restaurants SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", id.String()).Msg("failed to toggle restaurant")
		return fmt.Errorf("failed to toggle restaurant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRestaurantNotFound
	}
	return nil
}

// List returns a page of restaurants.
func (r *restaurantRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error) {
	page, err := listing.Fetch(ctx, r.pool, restaurantTable, q, scanRestaurant)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list restaurants")
	}
	return page, err
}

// Stats returns unfiltered restaurant counts.
func (r *restaurantRepository) Stats(ctx context.Context) (model.RestaurantStats, error) {
	var s model.RestaurantStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active)
		FROM restaurants
	`).Scan(&s.Total, &s.Active, &s.Inactive)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query restaurant stats")
		return s, fmt.Errorf("failed to query restaurant stats: %w", err)
	}
	return s, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
