package service

import (
	"context"
	"io"
	"time"

	"tablekart/internal/cart"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/subscription"

	"github.com/google/uuid"
)

// ProductService defines owner operations for product management.
type ProductService interface {
	// List returns a page of lite products. Archived products only appear
	// when the query filters on archived=true.
	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error)

	// Stats returns the unfiltered product counters.
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error)

	// GetByID retrieves a full product.
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error)

	Create(ctx context.Context, restaurantID uuid.UUID, req *model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)
	SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error
	SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error

	// ExportCSV writes every non-archived product as CSV.
	ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error
}

// CategoryService defines owner operations for menu categories.
type CategoryService interface {
	List(ctx context.Context, restaurantID uuid.UUID) ([]model.Category, error)
	Create(ctx context.Context, restaurantID uuid.UUID, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
}

// MenuService serves the public menu.
type MenuService interface {
	// BySlug resolves an active restaurant by its slug.
	BySlug(ctx context.Context, slug string) (*model.Restaurant, error)

	// ByDomain resolves an active restaurant by its custom domain.
	ByDomain(ctx context.Context, host string) (*model.Restaurant, error)

	// Menu returns the restaurant with its active categories.
	Menu(ctx context.Context, restaurant *model.Restaurant) (*model.Menu, error)

	// Products returns one page of available lite products, optionally
	// limited to a category.
	Products(ctx context.Context, restaurantID uuid.UUID, categoryID *uuid.UUID, page, pageSize int) (*model.MenuPage, error)

	// Product returns a full available product.
	Product(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error)

	// QRCode renders a PNG QR code pointing at the restaurant's public menu.
	QRCode(restaurant *model.Restaurant, size int) ([]byte, error)
}

// CartService manages session carts scoped to one restaurant.
type CartService interface {
	Get(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error)
	Add(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CartAddRequest) (cart.View, error)
	UpdateQuantity(ctx context.Context, restaurantID uuid.UUID, sessionID, key string, quantity int) (cart.View, error)
	Remove(ctx context.Context, restaurantID uuid.UUID, sessionID, key string) (cart.View, error)
	Clear(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error)
	ClearLastAdded(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error)
}

// OrderService defines checkout and owner order operations.
type OrderService interface {
	// Checkout turns the session cart into an order.
	Checkout(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.OrderResponse, error)

	// UpdateStatus moves an order along its lifecycle.
	UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error)

	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error)
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error)
}

// CustomerService defines owner operations for customers.
type CustomerService interface {
	List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error)
	Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error)
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, restaurantID uuid.UUID, req *model.CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error

	// ExportCSV writes every customer as CSV.
	ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error

	// ImportCSV reads customers from an uploaded CSV file.
	ImportCSV(ctx context.Context, restaurantID uuid.UUID, r io.Reader) (*model.ImportResult, error)

	// ImportSource reads customers from a named import source.
	ImportSource(ctx context.Context, restaurantID uuid.UUID, name string) (*model.ImportResult, error)
}

// RestaurantService covers owner settings and superadmin restaurant management.
type RestaurantService interface {
	// GetByOwner returns the restaurant owned by a user.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error)

	// Create registers the first restaurant of an owner.
	Create(ctx context.Context, ownerID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error)

	// UpdateSettings applies owner-editable settings.
	UpdateSettings(ctx context.Context, restaurantID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error)

	List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error)
	Stats(ctx context.Context) (model.RestaurantStats, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Delete and TransferOwnership run through serverless functions with
	// the caller's token.
	Delete(ctx context.Context, token string, id uuid.UUID) error
	TransferOwnership(ctx context.Context, token string, id uuid.UUID, newOwnerEmail string) error
}

// UserService covers superadmin user management.
type UserService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[model.User], error)
	Stats(ctx context.Context) (model.UserStats, error)
	Create(ctx context.Context, token string, req *model.CreateUserRequest) (*model.User, error)
	Delete(ctx context.Context, token string, callerID, id uuid.UUID) error
}

// SubscriptionService covers subscription status, management and plans.
type SubscriptionService interface {
	// Status returns the consolidated status of a restaurant's latest subscription.
	Status(ctx context.Context, restaurantID uuid.UUID) (subscription.Status, error)

	List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error)
	Stats(ctx context.Context) (model.SubscriptionStats, error)
	Create(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error)

	// Renew extends a subscription from the later of now and its end date.
	Renew(ctx context.Context, id uuid.UUID, months int) (*model.Subscription, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Subscription, error)

	ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, req *model.PlanRequest) (*model.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req *model.PlanRequest) (*model.SubscriptionPlan, error)
	SetPlanActive(ctx context.Context, id uuid.UUID, active bool) error
}

// TicketService covers support tickets for owners and superadmins.
type TicketService interface {
	Create(ctx context.Context, restaurantID, userID uuid.UUID, req *model.TicketRequest) (*model.SupportTicket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error)
	Update(ctx context.Context, id uuid.UUID, req *model.TicketUpdateRequest) (*model.SupportTicket, error)
	List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error)
	Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error)
}

// AnalyticsService builds the owner dashboard.
type AnalyticsService interface {
	Summary(ctx context.Context, restaurantID uuid.UUID, from, to *time.Time) (*model.Analytics, error)
}
