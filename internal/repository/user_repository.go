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

// userRepository implements the UserRepository interface using PostgreSQL.
// Users are created and deleted by the auth service; this side only reads.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, role, created_at FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

// List returns a page of users.
func (r *userRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.User], error) {
	page, err := listing.Fetch(ctx, r.pool, userTable, q, scanUser)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list users")
	}
	return page, err
}

// Stats returns unfiltered user counts by role.
func (r *userRepository) Stats(ctx context.Context) (model.UserStats, error) {
	var s model.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE role = 'superadmin'),
			COUNT(*) FILTER (WHERE role = 'restaurant_owner')
		FROM users
	`).Scan(&s.Total, &s.Superadmins, &s.Owners)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query user stats")
		return s, fmt.Errorf("failed to query user stats: %w", err)
	}
	return s, nil
}
