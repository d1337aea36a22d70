package handler

import (
	"context"
	"io"
	"time"

	"tablekart/internal/cart"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"
	"tablekart/internal/subscription"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMenuService is a mock implementation of MenuService.
type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) BySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockMenuService) ByDomain(ctx context.Context, host string) (*model.Restaurant, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockMenuService) Menu(ctx context.Context, restaurant *model.Restaurant) (*model.Menu, error) {
	args := m.Called(ctx, restaurant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuService) Products(ctx context.Context, restaurantID uuid.UUID, categoryID *uuid.UUID, page, pageSize int) (*model.MenuPage, error) {
	args := m.Called(ctx, restaurantID, categoryID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuPage), args.Error(1)
}

func (m *MockMenuService) Product(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockMenuService) QRCode(restaurant *model.Restaurant, size int) ([]byte, error) {
	args := m.Called(restaurant, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CartAddRequest) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID, req)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, restaurantID uuid.UUID, sessionID, key string, quantity int) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID, key, quantity)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, restaurantID uuid.UUID, sessionID, key string) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID, key)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *MockCartService) ClearLastAdded(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	args := m.Called(ctx, restaurantID, sessionID)
	return args.Get(0).(cart.View), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, restaurantID, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error) {
	args := m.Called(ctx, restaurantID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Order]), args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.OrderStats), args.Error(1)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Product]), args.Error(1)
}

func (m *MockProductService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.ProductStats), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, restaurantID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, restaurantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, restaurantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error {
	return m.Called(ctx, restaurantID, id, available).Error(0)
}

func (m *MockProductService) SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error {
	return m.Called(ctx, restaurantID, id, archived).Error(0)
}

func (m *MockProductService) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return m.Called(ctx, restaurantID, id).Error(0)
}

func (m *MockProductService) ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error {
	args := m.Called(ctx, restaurantID, w, delim)
	if len(args) > 1 {
		if s, ok := args.Get(1).(string); ok {
			_, _ = io.WriteString(w, s)
		}
	}
	return args.Error(0)
}

// MockCustomerService is a mock implementation of CustomerService.
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Customer]), args.Error(1)
}

func (m *MockCustomerService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.CustomerStats), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, restaurantID uuid.UUID, req *model.CustomerRequest) (*model.Customer, error) {
	args := m.Called(ctx, restaurantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.CustomerRequest) (*model.Customer, error) {
	args := m.Called(ctx, restaurantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return m.Called(ctx, restaurantID, id).Error(0)
}

func (m *MockCustomerService) ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error {
	return m.Called(ctx, restaurantID, w, delim).Error(0)
}

func (m *MockCustomerService) ImportCSV(ctx context.Context, restaurantID uuid.UUID, r io.Reader) (*model.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, restaurantID, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

func (m *MockCustomerService) ImportSource(ctx context.Context, restaurantID uuid.UUID, name string) (*model.ImportResult, error) {
	args := m.Called(ctx, restaurantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// MockTicketService is a mock implementation of TicketService.
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, restaurantID, userID uuid.UUID, req *model.TicketRequest) (*model.SupportTicket, error) {
	args := m.Called(ctx, restaurantID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) Update(ctx context.Context, id uuid.UUID, req *model.TicketUpdateRequest) (*model.SupportTicket, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.SupportTicket]), args.Error(1)
}

func (m *MockTicketService) Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.TicketStats), args.Error(1)
}

// MockRestaurantService is a mock implementation of RestaurantService.
type MockRestaurantService struct {
	mock.Mock
}

func (m *MockRestaurantService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantService) Create(ctx context.Context, ownerID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantService) UpdateSettings(ctx context.Context, restaurantID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error) {
	args := m.Called(ctx, restaurantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantService) List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.Restaurant]), args.Error(1)
}

func (m *MockRestaurantService) Stats(ctx context.Context) (model.RestaurantStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.RestaurantStats), args.Error(1)
}

func (m *MockRestaurantService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRestaurantService) Delete(ctx context.Context, token string, id uuid.UUID) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockRestaurantService) TransferOwnership(ctx context.Context, token string, id uuid.UUID, newOwnerEmail string) error {
	return m.Called(ctx, token, id, newOwnerEmail).Error(0)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, q listing.Query) (listing.Page[model.User], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.User]), args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context) (model.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.UserStats), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, token string, req *model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, token string, callerID, id uuid.UUID) error {
	return m.Called(ctx, token, callerID, id).Error(0)
}

// MockSubscriptionService is a mock implementation of SubscriptionService.
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Status(ctx context.Context, restaurantID uuid.UUID) (subscription.Status, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(subscription.Status), args.Error(1)
}

func (m *MockSubscriptionService) List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.Subscription]), args.Error(1)
}

func (m *MockSubscriptionService) Stats(ctx context.Context) (model.SubscriptionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.SubscriptionStats), args.Error(1)
}

func (m *MockSubscriptionService) Create(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Renew(ctx context.Context, id uuid.UUID, months int) (*model.Subscription, error) {
	args := m.Called(ctx, id, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubscriptionPlan), args.Error(1)
}

func (m *MockSubscriptionService) CreatePlan(ctx context.Context, req *model.PlanRequest) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockSubscriptionService) UpdatePlan(ctx context.Context, id uuid.UUID, req *model.PlanRequest) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockSubscriptionService) SetPlanActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

// MockAnalyticsService is a mock implementation of AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context, restaurantID uuid.UUID, from, to *time.Time) (*model.Analytics, error) {
	args := m.Called(ctx, restaurantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analytics), args.Error(1)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []realtime.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e realtime.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}
