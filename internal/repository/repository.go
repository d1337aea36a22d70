package repository

import (
	"context"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RestaurantRepository defines the interface for restaurant data access operations.
type RestaurantRepository interface {
	// GetByID retrieves a restaurant by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)

	// GetBySlug retrieves a restaurant by its public slug.
	GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error)

	// GetByDomain retrieves a restaurant by its custom domain.
	GetByDomain(ctx context.Context, domain string) (*model.Restaurant, error)

	// GetByOwner retrieves the restaurant owned by a user.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error)

	// SlugExists reports whether slug is used by a restaurant other than exclude.
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

	Create(ctx context.Context, r *model.Restaurant) error
	UpdateSettings(ctx context.Context, r *model.Restaurant) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error)
	Stats(ctx context.Context) (model.RestaurantStats, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// ListByRestaurant returns categories ordered by position.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, activeOnly bool) ([]model.Category, error)
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List returns a page of lite products (no variations or ingredients)
	// for a restaurant. Filters: category, available, archived.
	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error)

	// GetByID retrieves a full product with variations and ingredients.
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves full products of a restaurant by their IDs.
	GetByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]model.Product, error)

	// ListAll returns every non-archived full product of a restaurant.
	ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Product, error)

	// Save inserts or replaces a product together with its variations and
	// ingredients in one transaction.
	Save(ctx context.Context, p *model.Product) error

	SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error
	SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order of a restaurant along with its items.
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// UpdateStatus moves an order from one status to another. It fails with
	// model.ErrInvalidStatus when the stored status no longer equals from.
	UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, from, to model.OrderStatus) error

	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error)
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error)
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// RecordOrder upserts the customer by phone inside tx and adds one order
	// of the given total to their counters.
	RecordOrder(ctx context.Context, tx pgx.Tx, c *model.Customer, total decimal.Decimal) (uuid.UUID, error)

	// Import inserts customers, skipping phones already present. It returns
	// the number inserted.
	Import(ctx context.Context, restaurantID uuid.UUID, customers []model.Customer) (int, error)

	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
	ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Customer, error)
	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error)
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error)
}

// SubscriptionRepository defines the interface for subscription data access operations.
type SubscriptionRepository interface {
	// Latest returns the most recently created subscription of a restaurant.
	Latest(ctx context.Context, restaurantID uuid.UUID) (*model.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
	Create(ctx context.Context, s *model.Subscription) error
	Extend(ctx context.Context, id uuid.UUID, endsAt time.Time, months int, price decimal.Decimal) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) error
	List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error)
	Stats(ctx context.Context, now time.Time) (model.SubscriptionStats, error)
}

// PlanRepository defines the interface for subscription plan data access operations.
type PlanRepository interface {
	List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error)
	Create(ctx context.Context, p *model.SubscriptionPlan) error
	Update(ctx context.Context, p *model.SubscriptionPlan) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, q listing.Query) (listing.Page[model.User], error)
	Stats(ctx context.Context) (model.UserStats, error)
}

// TicketRepository defines the interface for support ticket data access operations.
type TicketRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error)
	Create(ctx context.Context, t *model.SupportTicket) error
	Update(ctx context.Context, id uuid.UUID, status model.TicketStatus, response *string) error
	List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error)
	Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error)
}

// AnalyticsRepository defines the read-only dashboard aggregates.
type AnalyticsRepository interface {
	Summary(ctx context.Context, restaurantID uuid.UUID, from, to time.Time, topN int) (*model.Analytics, error)
}
