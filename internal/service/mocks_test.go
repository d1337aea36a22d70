package service

import (
	"context"
	"time"

	"tablekart/internal/functions"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Product]), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, restaurantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error {
	return m.Called(ctx, restaurantID, id, available).Error(0)
}

func (m *MockProductRepository) SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error {
	return m.Called(ctx, restaurantID, id, archived).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return m.Called(ctx, restaurantID, id).Error(0)
}

func (m *MockProductRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.ProductStats), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, activeOnly bool) ([]model.Category, error) {
	args := m.Called(ctx, restaurantID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return m.Called(ctx, restaurantID, id).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	return m.Called(ctx, tx, items).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, from, to model.OrderStatus) error {
	return m.Called(ctx, restaurantID, id, from, to).Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Order]), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.OrderStats), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) RecordOrder(ctx context.Context, tx pgx.Tx, c *model.Customer, total decimal.Decimal) (uuid.UUID, error) {
	args := m.Called(ctx, tx, c, total)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCustomerRepository) Import(ctx context.Context, restaurantID uuid.UUID, customers []model.Customer) (int, error) {
	args := m.Called(ctx, restaurantID, customers)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, restaurantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	return m.Called(ctx, restaurantID, id).Error(0)
}

func (m *MockCustomerRepository) ListAll(ctx context.Context, restaurantID uuid.UUID) ([]model.Customer, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error) {
	args := m.Called(ctx, restaurantID, q)
	return args.Get(0).(listing.Page[model.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.CustomerStats), args.Error(1)
}

// MockRestaurantRepository is a mock implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) restaurant(args mock.Arguments) (*model.Restaurant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return m.restaurant(m.Called(ctx, id))
}

func (m *MockRestaurantRepository) GetBySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	return m.restaurant(m.Called(ctx, slug))
}

func (m *MockRestaurantRepository) GetByDomain(ctx context.Context, domain string) (*model.Restaurant, error) {
	return m.restaurant(m.Called(ctx, domain))
}

func (m *MockRestaurantRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error) {
	return m.restaurant(m.Called(ctx, ownerID))
}

func (m *MockRestaurantRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockRestaurantRepository) Create(ctx context.Context, r *model.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRestaurantRepository) UpdateSettings(ctx context.Context, r *model.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRestaurantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRestaurantRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.Restaurant]), args.Error(1)
}

func (m *MockRestaurantRepository) Stats(ctx context.Context) (model.RestaurantStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.RestaurantStats), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.User], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.User]), args.Error(1)
}

func (m *MockUserRepository) Stats(ctx context.Context) (model.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.UserStats), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Latest(ctx context.Context, restaurantID uuid.UUID) (*model.Subscription, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) Extend(ctx context.Context, id uuid.UUID, endsAt time.Time, months int, price decimal.Decimal) error {
	return m.Called(ctx, id, endsAt, months, price).Error(0)
}

func (m *MockSubscriptionRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockSubscriptionRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.Subscription]), args.Error(1)
}

func (m *MockSubscriptionRepository) Stats(ctx context.Context, now time.Time) (model.SubscriptionStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(model.SubscriptionStats), args.Error(1)
}

// MockPlanRepository is a mock implementation of PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) Create(ctx context.Context, p *model.SubscriptionPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, p *model.SubscriptionPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

// MockTicketRepository is a mock implementation of TicketRepository.
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) Create(ctx context.Context, t *model.SupportTicket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) Update(ctx context.Context, id uuid.UUID, status model.TicketStatus, response *string) error {
	return m.Called(ctx, id, status, response).Error(0)
}

func (m *MockTicketRepository) List(ctx context.Context, q listing.Query) (listing.Page[model.SupportTicket], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(listing.Page[model.SupportTicket]), args.Error(1)
}

func (m *MockTicketRepository) Stats(ctx context.Context, restaurantID *uuid.UUID) (model.TicketStats, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(model.TicketStats), args.Error(1)
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository.
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Summary(ctx context.Context, restaurantID uuid.UUID, from, to time.Time, topN int) (*model.Analytics, error) {
	args := m.Called(ctx, restaurantID, from, to, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analytics), args.Error(1)
}

// MockFunctions is a mock implementation of functions.Client.
type MockFunctions struct {
	mock.Mock
}

func (m *MockFunctions) DeleteRestaurant(ctx context.Context, token string, restaurantID uuid.UUID) error {
	return m.Called(ctx, token, restaurantID).Error(0)
}

func (m *MockFunctions) DeleteUser(ctx context.Context, token string, userID uuid.UUID) error {
	return m.Called(ctx, token, userID).Error(0)
}

func (m *MockFunctions) TransferOwnership(ctx context.Context, token string, restaurantID uuid.UUID, newOwnerEmail string) error {
	return m.Called(ctx, token, restaurantID, newOwnerEmail).Error(0)
}

func (m *MockFunctions) CreateUser(ctx context.Context, token string, req functions.CreateUserInput) (uuid.UUID, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	events []realtime.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e realtime.Event) error {
	p.events = append(p.events, e)
	return p.err
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
