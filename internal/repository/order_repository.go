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

const orderColumns = `id, restaurant_id, customer_id, customer_name, customer_phone,
	delivery_address, order_type, status, notes, total, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.RestaurantID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone,
		&o.DeliveryAddress, &o.OrderType, &o.Status, &o.Notes, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, restaurant_id, customer_id, customer_name, customer_phone,
			delivery_address, order_type, status, notes, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.RestaurantID, order.CustomerID, order.CustomerName,
		order.CustomerPhone, order.DeliveryAddress, order.OrderType, order.Status, order.Notes,
		order.Total, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("restaurant_id", order.RestaurantID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, variation_id, product_name,
			variation_name, unit_price, quantity, ingredients, notes, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		ingredients := item.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.VariationID, item.ProductName,
			item.VariationName, item.UnitPrice, item.Quantity, ingredients, item.Notes, item.LineTotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `SELECT ` + orderColumns + ` FROM orders WHERE restaurant_id = $1 AND id = $2`

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, restaurantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, variation_id, product_name, variation_name,
			unit_price, quantity, ingredients, notes, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name, variation_name, id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariationID, &item.ProductName,
			&item.VariationName, &item.UnitPrice, &item.Quantity, &item.Ingredients, &item.Notes, &item.LineTotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, items, nil
}

// UpdateStatus performs a compare-and-set on the order status.
func (r *orderRepository) UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, from, to model.OrderStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $4, updated_at = NOW()
		WHERE restaurant_id = $1 AND id = $2 AND status = $3
	`, restaurantID, id, from, to)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("order status changed concurrently")
		return model.ErrInvalidStatus
	}
	return nil
}

// List returns a page of orders of a restaurant.
func (r *orderRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error) {
	page, err := listing.Fetch(ctx, r.pool, orderTable, q.WithFilter("restaurant", restaurantID), scanOrder)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to list orders")
	}
	return page, err
}

// Stats returns unfiltered order counts of a restaurant. Revenue excludes
// cancelled orders.
func (r *orderRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error) {
	var s model.OrderStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&s.Total, &s.Pending, &s.Delivered, &s.Cancelled, &s.Revenue)
	if err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query order stats")
		return s, fmt.Errorf("failed to query order stats: %w", err)
	}
	return s, nil
}
