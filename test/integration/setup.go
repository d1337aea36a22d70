package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tablekart/internal/config"
	"tablekart/internal/database"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the embedded
// migrations and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Fixture is one seeded restaurant with a single orderable product.
type Fixture struct {
	OwnerID      uuid.UUID
	OwnerEmail   string
	RestaurantID uuid.UUID
	Slug         string
	CategoryID   uuid.UUID
	ProductID    uuid.UUID
	VariationID  uuid.UUID // Price 10.00
	CheeseID     uuid.UUID // Optional, extra cost 1.50
	TomatoID     uuid.UUID // Default ingredient
}

// SeedUser inserts a platform user.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email string, role model.Role) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4)",
		id, email, "Test "+email, role,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

// SeedRestaurant inserts an active restaurant, its owner, one category and
// a "Margherita" product.
func SeedRestaurant(t *testing.T, pool *pgxpool.Pool, slug string) Fixture {
	t.Helper()

	ctx := context.Background()
	f := Fixture{
		OwnerEmail:   slug + "@example.com",
		RestaurantID: uuid.New(),
		Slug:         slug,
		CategoryID:   uuid.New(),
		ProductID:    uuid.New(),
		VariationID:  uuid.New(),
		CheeseID:     uuid.New(),
		TomatoID:     uuid.New(),
	}
	f.OwnerID = SeedUser(t, pool, f.OwnerEmail, model.RoleRestaurantOwner)

	statements := []struct {
		sql  string
		args []any
	}{
		{"INSERT INTO restaurants (id, owner_id, name, slug) VALUES ($1, $2, $3, $4)",
			[]any{f.RestaurantID, f.OwnerID, "Restaurant " + slug, slug}},
		{"INSERT INTO categories (id, restaurant_id, name, position) VALUES ($1, $2, 'Pizzas', 0)",
			[]any{f.CategoryID, f.RestaurantID}},
		{"INSERT INTO products (id, restaurant_id, category_id, name) VALUES ($1, $2, $3, 'Margherita')",
			[]any{f.ProductID, f.RestaurantID, f.CategoryID}},
		{"INSERT INTO product_variations (id, product_id, name, price) VALUES ($1, $2, 'Regular', 10.00)",
			[]any{f.VariationID, f.ProductID}},
		{"INSERT INTO product_ingredients (id, product_id, name, is_optional, extra_cost) VALUES ($1, $2, 'Extra cheese', TRUE, 1.50)",
			[]any{f.CheeseID, f.ProductID}},
		{"INSERT INTO product_ingredients (id, product_id, name) VALUES ($1, $2, 'Tomato')",
			[]any{f.TomatoID, f.ProductID}},
	}
	for _, s := range statements {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			t.Fatalf("failed to seed restaurant %s: %v", slug, err)
		}
	}

	return f
}

// SeedSubscription gives a restaurant a plan valid for the given window.
func SeedSubscription(t *testing.T, pool *pgxpool.Pool, restaurantID uuid.UUID, status model.SubscriptionStatus, startsAt, endsAt time.Time) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	planID := uuid.New()
	_, err := pool.Exec(ctx,
		"INSERT INTO subscription_plans (id, name, monthly_price) VALUES ($1, $2, 29.90)",
		planID, "Plan "+planID.String()[:8],
	)
	if err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}

	id := uuid.New()
	_, err = pool.Exec(ctx,
		`INSERT INTO subscriptions (id, restaurant_id, plan_id, duration_months, status, price, starts_at, ends_at)
		 VALUES ($1, $2, $3, 1, $4, 29.90, $5, $6)`,
		id, restaurantID, planID, status, startsAt, endsAt,
	)
	if err != nil {
		t.Fatalf("failed to seed subscription: %v", err)
	}
	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"support_tickets", "subscriptions", "subscription_plans", "order_items", "orders",
		"customers", "product_ingredients", "product_variations", "products", "categories",
		"restaurants", "users",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
