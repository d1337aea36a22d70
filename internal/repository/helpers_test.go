package repository

import (
	"context"
	"testing"
	"time"

	"tablekart/internal/database"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the migrations
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string, role model.Role) uuid.UUID {
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4)`,
		id, email, "Test "+email, role)
	require.NoError(t, err)
	return id
}

func seedRestaurant(t *testing.T, pool *pgxpool.Pool, slug string, active bool) model.Restaurant {
	owner := seedUser(t, pool, slug+"@example.com", model.RoleRestaurantOwner)
	now := time.Now().UTC().Truncate(time.Microsecond)
	r := model.Restaurant{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      "Restaurant " + slug,
		Slug:      slug,
		Currency:  "EUR",
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewRestaurantRepository(pool, zerolog.Nop()).Create(context.Background(), &r))
	return r
}

func newTestProduct(restaurantID uuid.UUID, name string, position int, prices ...string) model.Product {
	p := model.Product{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         name,
		IsAvailable:  true,
		Position:     position,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	for i, price := range prices {
		p.Variations = append(p.Variations, model.Variation{
			ID:       uuid.New(),
			Name:     "Size " + string(rune('A'+i)),
			Price:    decimal.RequireFromString(price),
			Position: i,
		})
	}
	return p
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, p model.Product) model.Product {
	require.NoError(t, NewProductRepository(pool, zerolog.Nop()).Save(context.Background(), &p))
	return p
}
