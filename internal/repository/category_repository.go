package repository

import (
	"context"
	"errors"
	"fmt"

	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

// ListByRestaurant returns the categories of a restaurant ordered by position.
func (r *categoryRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, activeOnly bool) ([]model.Category, error) {
	query := `
		SELECT id, restaurant_id, name, position, is_active, created_at
		FROM categories
		WHERE restaurant_id = $1 AND ($2 = false OR is_active)
		ORDER BY position, name
	`

	rows, err := r.pool.Query(ctx, query, restaurantID, activeOnly)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Position, &c.IsActive, &c.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves one category of a restaurant.
func (r *categoryRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, name, position, is_active, created_at
		FROM categories
		WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id).Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Position, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// Create inserts a category.
func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, restaurant_id, name, position, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.RestaurantID, c.Name, c.Position, c.IsActive, c.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", c.RestaurantID.String()).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update writes name, position and active flag.
func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name = $3, position = $4, is_active = $5
		WHERE restaurant_id = $1 AND id = $2
	`, c.RestaurantID, c.ID, c.Name, c.Position, c.IsActive)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", c.ID.String()).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a category. Its products keep existing without a category.
func (r *categoryRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
