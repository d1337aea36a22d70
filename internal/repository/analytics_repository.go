package repository

import (
	"context"
	"fmt"
	"time"

	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// analyticsRepository implements the AnalyticsRepository interface using PostgreSQL.
type analyticsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(pool *pgxpool.Pool, logger zerolog.Logger) AnalyticsRepository {
	return &analyticsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "analytics").Logger(),
	}
}

// Summary aggregates orders created in [from, to). Cancelled orders count
// towards the status breakdown only.
func (r *analyticsRepository) Summary(ctx context.Context, restaurantID uuid.UUID, from, to time.Time, topN int) (*model.Analytics, error) {
	a := &model.Analytics{
		From:           from,
		To:             to,
		OrdersByStatus: map[model.OrderStatus]int{},
		Daily:          []model.DailyRevenue{},
		TopProducts:    []model.TopProduct{},
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3 AND status <> 'cancelled'
	`, restaurantID, from, to).QueryRow(func(row pgx.Row) error {
		return row.Scan(&a.OrdersCount, &a.Revenue, &a.AverageTicket)
	})
	batch.Queue(`
		SELECT status, COUNT(*)
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY status
	`, restaurantID, from, to).Query(func(rows pgx.Rows) error {
		for rows.Next() {
			var status model.OrderStatus
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			a.OrdersByStatus[status] = n
		}
		return rows.Err()
	})
	batch.Queue(`
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3 AND status <> 'cancelled'
		GROUP BY day
		ORDER BY day
	`, restaurantID, from, to).Query(func(rows pgx.Rows) error {
		for rows.Next() {
			var d model.DailyRevenue
			if err := rows.Scan(&d.Day, &d.Orders, &d.Revenue); err != nil {
				return err
			}
			a.Daily = append(a.Daily, d)
		}
		return rows.Err()
	})
	batch.Queue(`
		SELECT oi.product_id, MIN(oi.product_name), SUM(oi.quantity), SUM(oi.line_total)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.restaurant_id = $1 AND o.created_at >= $2 AND o.created_at < $3 AND o.status <> 'cancelled'
		GROUP BY oi.product_id
		ORDER BY SUM(oi.quantity) DESC, MIN(oi.product_name)
		LIMIT $4
	`, restaurantID, from, to, topN).Query(func(rows pgx.Rows) error {
		for rows.Next() {
			var p model.TopProduct
			if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
				return err
			}
			a.TopProducts = append(a.TopProducts, p)
		}
		return rows.Err()
	})

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to query analytics")
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}

	a.AverageTicket = a.AverageTicket.Round(2)
	return a, nil
}
