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

// planRepository implements the PlanRepository interface using PostgreSQL.
type planRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPlanRepository creates a new PostgreSQL-backed plan repository.
func NewPlanRepository(pool *pgxpool.Pool, logger zerolog.Logger) PlanRepository {
	return &planRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "plan").Logger(),
	}
}

func scanPlan(row pgx.Row) (model.SubscriptionPlan, error) {
	var p model.SubscriptionPlan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.MonthlyPrice, &p.Features, &p.IsActive, &p.CreatedAt)
	return p, err
}

// List returns plans ordered by price.
func (r *planRepository) List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, monthly_price, features, is_active, created_at
		FROM subscription_plans
		WHERE $1 = false OR is_active
		ORDER BY monthly_price, name
	`, activeOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query plans")
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	plans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SubscriptionPlan, error) {
		return scanPlan(row)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan plan rows")
		return nil, fmt.Errorf("failed to scan plans: %w", err)
	}
	return plans, nil
}

// GetByID retrieves a plan by its ID.
func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx, `
		SELECT id, name, description, monthly_price, features, is_active, created_at
		FROM subscription_plans
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("plan_id", id.String()).Msg("failed to query plan")
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}
	return &p, nil
}

// Create inserts a plan.
func (r *planRepository) Create(ctx context.Context, p *model.SubscriptionPlan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscription_plans (id, name, description, monthly_price, features, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Name, p.Description, p.MonthlyPrice, nonNil(p.Features), p.IsActive, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDomainError(model.ErrCodeValidation, "A plan with this name already exists")
		}
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to create plan")
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// Update writes every editable plan field.
func (r *planRepository) Update(ctx context.Context, p *model.SubscriptionPlan) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscription_plans
		SET name = $2, description = $3, monthly_price = $4, features = $5, is_active = $6
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.MonthlyPrice, nonNil(p.Features), p.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDomainError(model.ErrCodeValidation, "A plan with this name already exists")
		}
		r.logger.Error().Err(err).Str("plan_id", p.ID.String()).Msg("failed to update plan")
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlanNotFound
	}
	return nil
}

// SetActive toggles whether a plan can be sold.
func (r *planRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE subscription_plans SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		r.logger.Error().Err(err).Str("plan_id", id.String()).Msg("failed to toggle plan")
		return fmt.Errorf("failed to toggle plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlanNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
