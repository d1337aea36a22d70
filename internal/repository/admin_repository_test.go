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

func TestRestaurantRepository_Lookups(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRestaurantRepository(pool, zerolog.Nop())
	ctx := context.Background()

	rest := seedRestaurant(t, pool, "bistro", true)
	seedRestaurant(t, pool, "closed", false)

	domain := "Menu.Bistro.Example"
	rest.CustomDomain = &domain
	require.NoError(t, repo.UpdateSettings(ctx, &rest))

	tests := []struct {
		name   string
		lookup func() (*model.Restaurant, error)
		found  bool
	}{
		{"By slug", func() (*model.Restaurant, error) { return repo.GetBySlug(ctx, "bistro") }, true},
		{"By domain ignores case", func() (*model.Restaurant, error) { return repo.GetByDomain(ctx, "menu.bistro.example") }, true},
		{"By owner", func() (*model.Restaurant, error) { return repo.GetByOwner(ctx, rest.OwnerID) }, true},
		{"Unknown slug", func() (*model.Restaurant, error) { return repo.GetBySlug(ctx, "nope") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()

			require.NoError(t, err)
			if tt.found {
				require.NotNil(t, got)
				assert.Equal(t, rest.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}

	taken, err := repo.SlugExists(ctx, "closed", rest.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugExists(ctx, "bistro", rest.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own slug is not taken")

	rest.Slug = "closed"
	assert.ErrorIs(t, repo.UpdateSettings(ctx, &rest), model.ErrSlugTaken)

	page, err := repo.List(ctx, listing.Query{Filters: map[string]any{"active": false}})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "closed", page.Items[0].Slug)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RestaurantStats{Total: 2, Active: 1, Inactive: 1}, stats)

	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), true), model.ErrRestaurantNotFound)
}

func TestSubscriptionRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	plans := NewPlanRepository(pool, zerolog.Nop())
	subs := NewSubscriptionRepository(pool, zerolog.Nop())
	ctx := context.Background()

	rest := seedRestaurant(t, pool, "subscribed", true)
	now := time.Now().UTC().Truncate(time.Microsecond)

	plan := model.SubscriptionPlan{
		ID:           uuid.New(),
		Name:         "Pro",
		MonthlyPrice: decimal.RequireFromString("29.90"),
		Features:     []string{"analytics", "csv"},
		IsActive:     true,
		CreatedAt:    now,
	}
	require.NoError(t, plans.Create(ctx, &plan))

	old := model.Subscription{
		ID: uuid.New(), RestaurantID: rest.ID, PlanID: plan.ID, DurationMonths: 1,
		Status: model.SubscriptionExpired, StartsAt: now.AddDate(0, -2, 0), EndsAt: now.AddDate(0, -1, 0),
		CreatedAt: now.Add(-time.Hour),
	}
	current := model.Subscription{
		ID: uuid.New(), RestaurantID: rest.ID, PlanID: plan.ID, DurationMonths: 1,
		Status: model.SubscriptionActive, Price: plan.MonthlyPrice,
		StartsAt: now, EndsAt: now.Add(3 * 24 * time.Hour), CreatedAt: now,
	}
	require.NoError(t, subs.Create(ctx, &old))
	require.NoError(t, subs.Create(ctx, &current))

	latest, err := subs.Latest(ctx, rest.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, current.ID, latest.ID)
	assert.Equal(t, "Pro", latest.PlanName)

	stats, err := subs.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.ExpiringSoon)

	newEnd := current.EndsAt.AddDate(0, 3, 0)
	require.NoError(t, subs.Extend(ctx, current.ID, newEnd, 3, decimal.RequireFromString("89.70")))
	got, err := subs.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.DurationMonths)
	assert.True(t, newEnd.Equal(got.EndsAt))

	require.NoError(t, subs.SetStatus(ctx, current.ID, model.SubscriptionCancelled))

	page, err := subs.List(ctx, listing.Query{Search: "subscribed", Filters: map[string]any{"status": model.SubscriptionCancelled}})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, current.ID, page.Items[0].ID)

	require.NoError(t, plans.SetActive(ctx, plan.ID, false))
	active, err := plans.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := plans.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"analytics", "csv"}, all[0].Features)
}

func TestUserAndTicketRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	users := NewUserRepository(pool, zerolog.Nop())
	tickets := NewTicketRepository(pool, zerolog.Nop())
	ctx := context.Background()

	rest := seedRestaurant(t, pool, "help", true)
	seedUser(t, pool, "root@example.com", model.RoleSuperadmin)

	u, err := users.GetByEmail(ctx, "ROOT@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, model.RoleSuperadmin, u.Role)

	page, err := users.List(ctx, listing.Query{Filters: map[string]any{"role": model.RoleRestaurantOwner}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	stats, err := users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{Total: 2, Superadmins: 1, Owners: 1}, stats)

	now := time.Now()
	ticket := model.SupportTicket{
		ID: uuid.New(), RestaurantID: rest.ID, UserID: rest.OwnerID,
		Subject: "Printer", Message: "Kitchen printer offline", Priority: "high",
		Status: model.TicketOpen, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, tickets.Create(ctx, &ticket))

	response := "Restarted the bridge"
	require.NoError(t, tickets.Update(ctx, ticket.ID, model.TicketResolved, &response))
	require.NoError(t, tickets.Update(ctx, ticket.ID, model.TicketClosed, nil))

	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketClosed, got.Status)
	require.NotNil(t, got.Response)
	assert.Equal(t, response, *got.Response, "nil response keeps the previous one")

	tstats, err := tickets.Stats(ctx, &rest.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStats{Total: 1, Closed: 1}, tstats)

	tstats, err = tickets.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tstats.Total)

	tpage, err := tickets.List(ctx, listing.Query{Search: "printer"})
	require.NoError(t, err)
	assert.Equal(t, 1, tpage.Total)
}

func TestAnalyticsRepository_Summary(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	orders := NewOrderRepository(pool, zerolog.Nop())
	analytics := NewAnalyticsRepository(pool, zerolog.Nop())
	ctx := context.Background()

	rest := seedRestaurant(t, pool, "stats", true)
	pizza := seedProduct(t, pool, newTestProduct(rest.ID, "Pizza", 0, "10.00"))
	salad := seedProduct(t, pool, newTestProduct(rest.ID, "Salad", 1, "6.00"))

	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	item := func(orderID uuid.UUID, p model.Product, qty int) model.OrderItem {
		unit := p.Variations[0].Price
		return model.OrderItem{
			ID: uuid.New(), OrderID: orderID, ProductID: p.ID, VariationID: p.Variations[0].ID,
			ProductName: p.Name, VariationName: p.Variations[0].Name, UnitPrice: unit,
			Quantity: qty, LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))),
		}
	}

	o1 := newTestOrder(rest.ID, "A", "26.00", model.OrderStatusDelivered, day)
	createTestOrder(t, orders, o1, []model.OrderItem{item(o1.ID, pizza, 2), item(o1.ID, salad, 1)})
	o2 := newTestOrder(rest.ID, "B", "18.00", model.OrderStatusPending, day.Add(24*time.Hour))
	createTestOrder(t, orders, o2, []model.OrderItem{item(o2.ID, salad, 3)})
	o3 := newTestOrder(rest.ID, "C", "100.00", model.OrderStatusCancelled, day.Add(24*time.Hour))
	createTestOrder(t, orders, o3, []model.OrderItem{item(o3.ID, pizza, 10)})

	a, err := analytics.Summary(ctx, rest.ID, day.Add(-time.Hour), day.Add(48*time.Hour), 5)

	require.NoError(t, err)
	assert.Equal(t, 2, a.OrdersCount)
	assert.True(t, decimal.RequireFromString("44").Equal(a.Revenue))
	assert.True(t, decimal.RequireFromString("22").Equal(a.AverageTicket))
	assert.Equal(t, map[model.OrderStatus]int{
		model.OrderStatusDelivered: 1,
		model.OrderStatusPending:   1,
		model.OrderStatusCancelled: 1,
	}, a.OrdersByStatus)
	require.Len(t, a.Daily, 2)
	require.Len(t, a.TopProducts, 2)
	assert.Equal(t, "Salad", a.TopProducts[0].Name)
	assert.Equal(t, 4, a.TopProducts[0].Quantity)
}
