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
	"github.com/shopspring/decimal"
)

const customerColumns = `id, restaurant_id, name, phone, email, address,
	orders_count, total_spent, last_order_at, created_at`

// customerRepository implements the CustomerRepository interface using PostgreSQL.
type customerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

func scanCustomer(row pgx.Row) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Phone, &c.Email, &c.Address,
		&c.OrdersCount, &c.TotalSpent, &c.LastOrderAt, &c.CreatedAt)
	return c, err
}

// RecordOrder upserts the customer by phone and bumps their order counters.
// Name, email and address are refreshed from the latest order when given.
func (r *customerRepository) RecordOrder(ctx context.Context, tx pgx.Tx, c *model.Customer, total decimal.Decimal) (uuid.UUID, error) {
	query := `
		INSERT INTO customers (id, restaurant_id, name, phone, email, address,
			orders_count, total_spent, last_order_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, NOW(), NOW())
		ON CONFLICT (restaurant_id, phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(NULLIF(EXCLUDED.email, ''), customers.email),
			address = COALESCE(NULLIF(EXCLUDED.address, ''), customers.address),
			orders_count = customers.orders_count + 1,
			total_spent = customers.total_spent + EXCLUDED.total_spent,
			last_order_at = NOW()
		RETURNING id
	`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, c.ID, c.RestaurantID, c.Name, c.Phone, c.Email, c.Address, total).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", c.RestaurantID.String()).Msg("failed to record customer order")
		return uuid.Nil, fmt.Errorf("failed to record customer order: %w", err)
	}
	return id, nil
}

// Import inserts customers in one batch, skipping existing phones.
func (r *customerRepository) Import(ctx context.Context, restaurantID uuid.UUID, customers []model.Customer) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO customers (id, restaurant_id, name, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (restaurant_id, phone) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, c := range customers {
		batch.Queue(query, c.ID, restaurantID, c.Name, c.Phone, c.Email, c.Address)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range customers {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().Err(err).Str("phone", customers[i].Phone).Msg("failed to import customer")
			return inserted, fmt.Errorf("failed to import customer: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	r.logger.Info().
		Str("restaurant_id", restaurantID.String()).
		Int("rows", len(customers)).
		Int("inserted", inserted).
		Msg("customers imported")

	return inserted, nil
}

// GetByID retrieves one customer of a restaurant.
func (r *customerRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE restaurant_id = $1 AND id = $2`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, restaurantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &c, nil
}

// Create inserts a customer.
func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, restaurant_id, name, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.RestaurantID, c.Name, c.Phone, c.Email, c.Address, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDomainError(model.ErrCodeValidation, "A customer with this phone already exists")
		}
		r.logger.Error().Err(err).Msg("failed to create customer")
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update writes the editable customer fields.
func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers SET name = $3, phone = $4, email = $5, address = $6
		WHERE restaurant_id = $1 AND id = $2
	`, c.RestaurantID, c.ID, c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDomainError(model.ErrCodeValidation, "A customer with this phone already exists")
		}
		r.logger.Error().Err(err).Str("customer_id", c.ID.String()).Msg("failed to update customer")
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a customer. Their orders keep the copied name and phone.
func (r *customerRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to delete customer")
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListAll returns every customer of a restaurant ordered by name.
func (r *customerRepository) ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE restaurant_id = $1 ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query customers")
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Customer, error) {
		return scanCustomer(row)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan customer rows")
		return nil, fmt.Errorf("failed to scan customers: %w", err)
	}
	return customers, nil
}

// List returns a page of customers of a restaurant.
func (r *customerRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error) {
	page, err := listing.Fetch(ctx, r.pool, customerTable, q.WithFilter("restaurant", restaurantID), scanCustomer)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to list customers")
	}
	return page, err
}

// Stats returns unfiltered customer aggregates of a restaurant.
func (r *customerRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error) {
	var s model.CustomerStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW())),
			COUNT(*) FILTER (WHERE orders_count > 1),
			COALESCE(SUM(total_spent), 0)
		FROM customers
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&s.Total, &s.NewThisMonth, &s.Returning, &s.TotalSpent)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query customer stats")
		return s, fmt.Errorf("failed to query customer stats: %w", err)
	}
	return s, nil
}
