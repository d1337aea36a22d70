package repository

import (
	"context"
	"testing"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_RecordOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(pool, zerolog.Nop())
	ctx := context.Background()
	rest := seedRestaurant(t, pool, "diner", true)

	record := func(name, email string, total string) uuid.UUID {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		id, err := repo.RecordOrder(ctx, tx, &model.Customer{
			ID:           uuid.New(),
			RestaurantID: rest.ID,
			Name:         name,
			Phone:        "600111222",
			Email:        email,
		}, decimal.RequireFromString(total))
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
		return id
	}

	first := record("Dana", "dana@example.com", "12.00")
	second := record("Dana S.", "", "8.00")

	assert.Equal(t, first, second, "same phone is the same customer")

	c, err := repo.GetByID(ctx, rest.ID, first)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Dana S.", c.Name)
	assert.Equal(t, "dana@example.com", c.Email, "blank email keeps the stored one")
	assert.Equal(t, 2, c.OrdersCount)
	assert.True(t, decimal.RequireFromString("20").Equal(c.TotalSpent))
	assert.NotNil(t, c.LastOrderAt)
}

func TestCustomerRepository_ImportAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(pool, zerolog.Nop())
	ctx := context.Background()
	rest := seedRestaurant(t, pool, "cafe", true)

	existing := model.Customer{
		ID:           uuid.New(),
		RestaurantID: rest.ID,
		Name:         "Eve",
		Phone:        "100",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, &existing))

	inserted, err := repo.Import(ctx, rest.ID, []model.Customer{
		{ID: uuid.New(), Name: "Eve again", Phone: "100"},
		{ID: uuid.New(), Name: "Finn", Phone: "200", Email: "finn@example.com"},
		{ID: uuid.New(), Name: "Gus", Phone: "300"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	page, err := repo.List(ctx, rest.ID, listing.Query{Search: "finn@"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Finn", page.Items[0].Name)

	page, err = repo.List(ctx, rest.ID, listing.Query{SortBy: "name", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasMore())
	assert.Equal(t, "Eve", page.Items[0].Name)

	_, err = repo.List(ctx, rest.ID, listing.Query{SortBy: "phone; DROP TABLE customers"})
	assert.ErrorIs(t, err, listing.ErrUnknownSort)

	all, err := repo.ListAll(ctx, rest.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stats, err := repo.Stats(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.NewThisMonth)
	assert.Equal(t, 0, stats.Returning)

	dup := model.Customer{ID: uuid.New(), RestaurantID: rest.ID, Name: "Clash", Phone: "200", CreatedAt: time.Now()}
	err = repo.Create(ctx, &dup)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeValidation, de.Code)

	require.NoError(t, repo.Delete(ctx, rest.ID, existing.ID))
	assert.ErrorIs(t, repo.Delete(ctx, rest.ID, existing.ID), model.ErrNotFound)
}
