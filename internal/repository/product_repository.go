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

const productColumns = `id, restaurant_id, category_id, name, description,
	image_url, is_available, is_archived, position, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.RestaurantID, &p.CategoryID, &p.Name, &p.Description,
		&p.ImageURL, &p.IsAvailable, &p.IsArchived, &p.Position, &p.CreatedAt)
	return p, err
}

// List returns a page of lite products of a restaurant.
func (r *productRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error) {
	page, err := listing.Fetch(ctx, r.pool, productTable, q.WithFilter("restaurant", restaurantID), scanProduct)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to list products")
	}
	return page, err
}

// GetByID retrieves a full product by its ID.
func (r *productRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	products, err := r.GetByIDs(ctx, restaurantID, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, nil
	}
	return &products[0], nil
}

// GetByIDs retrieves full products of a restaurant by their IDs. Unknown
// IDs and products of other restaurants are left out.
func (r *productRepository) GetByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE restaurant_id = $1 AND id = ANY($2::uuid[])
		ORDER BY position, name
	`
	return r.queryFull(ctx, query, restaurantID, uuidStrings(ids))
}

// ListAll returns every non-archived full product of a restaurant.
func (r *productRepository) ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE restaurant_id = $1 AND NOT is_archived
		ORDER BY position, name
	`
	return r.queryFull(ctx, query, restaurantID)
}

func (r *productRepository) queryFull(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	if err := r.attachDetails(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// attachDetails loads variations and ingredients for products in two queries.
func (r *productRepository) attachDetails(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(products))
	ids := make([]string, len(products))
	for i, p := range products {
		index[p.ID] = i
		ids[i] = p.ID.String()
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, name, price, position
		FROM product_variations
		WHERE product_id = ANY($1::uuid[])
		ORDER BY position, price
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query variations")
		return fmt.Errorf("failed to query variations: %w", err)
	}
	variations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Variation, error) {
		var v model.Variation
		err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.Position)
		return v, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan variation rows")
		return fmt.Errorf("failed to scan variations: %w", err)
	}
	for _, v := range variations {
		p := &products[index[v.ProductID]]
		p.Variations = append(p.Variations, v)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, product_id, name, is_optional, extra_cost
		FROM product_ingredients
		WHERE product_id = ANY($1::uuid[])
		ORDER BY is_optional, name
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query ingredients")
		return fmt.Errorf("failed to query ingredients: %w", err)
	}
	ingredients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Ingredient, error) {
		var in model.Ingredient
		err := row.Scan(&in.ID, &in.ProductID, &in.Name, &in.IsOptional, &in.ExtraCost)
		return in, err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan ingredient rows")
		return fmt.Errorf("failed to scan ingredients: %w", err)
	}
	for _, in := range ingredients {
		p := &products[index[in.ProductID]]
		p.Ingredients = append(p.Ingredients, in)
	}

	return nil
}

// Save inserts or replaces a product with its variations and ingredients.
func (r *productRepository) Save(ctx context.Context, p *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error().Err(err).Msg("failed to rollback transaction")
		}
	}()

	tag, err := tx.Exec(ctx, `
		INSERT INTO products (id, restaurant_id, category_id, name, description,
			image_url, is_available, is_archived, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			is_available = EXCLUDED.is_available,
			position = EXCLUDED.position
		WHERE products.restaurant_id = EXCLUDED.restaurant_id
	`, p.ID, p.RestaurantID, p.CategoryID, p.Name, p.Description,
		p.ImageURL, p.IsAvailable, p.IsArchived, p.Position, p.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to save product")
		return fmt.Errorf("failed to save product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM product_variations WHERE product_id = $1`, p.ID)
	batch.Queue(`DELETE FROM product_ingredients WHERE product_id = $1`, p.ID)
	for _, v := range p.Variations {
		batch.Queue(`
			INSERT INTO product_variations (id, product_id, name, price, position)
			VALUES ($1, $2, $3, $4, $5)
		`, v.ID, p.ID, v.Name, v.Price, v.Position)
	}
	for _, in := range p.Ingredients {
		batch.Queue(`
			INSERT INTO product_ingredients (id, product_id, name, is_optional, extra_cost)
			VALUES ($1, $2, $3, $4, $5)
		`, in.ID, p.ID, in.Name, in.IsOptional, in.ExtraCost)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to save product details")
		return fmt.Errorf("failed to save product details: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("product_id", p.ID.String()).
		Int("variations", len(p.Variations)).
		Int("ingredients", len(p.Ingredients)).
		Msg("product saved")

	return nil
}

// SetAvailable toggles whether a product can be ordered.
func (r *productRepository) SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error {
	return r.setFlag(ctx, "is_available", restaurantID, id, available)
}

// SetArchived moves a product in or out of the archive.
func (r *productRepository) SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error {
	return r.setFlag(ctx, "is_archived", restaurantID, id, archived)
}

func (r *productRepository) setFlag(ctx context.Context, column string, restaurantID, id uuid.UUID, value bool) error {
	query := `UPDATE products SET ` + column + ` = $3 WHERE restaurant_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, restaurantID, id, value)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Str("column", column).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// Delete removes a product permanently.
func (r *productRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// Stats returns unfiltered product counts of a restaurant.
func (r *productRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error) {
	var s model.ProductStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE NOT is_archived),
			COUNT(*) FILTER (WHERE NOT is_archived AND is_available),
			COUNT(*) FILTER (WHERE NOT is_archived AND NOT is_available),
			COUNT(*) FILTER (WHERE is_archived)
		FROM products
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&s.Total, &s.Available, &s.Unavailable, &s.Archived)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query product stats")
		return s, fmt.Errorf("failed to query product stats: %w", err)
	}
	return s, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
