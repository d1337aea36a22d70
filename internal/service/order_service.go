package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekart/internal/cart"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	customerRepo   repository.CustomerRepository
	restaurantRepo repository.RestaurantRepository
	carts          cart.Store
	publisher      realtime.Publisher
	logger         zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	restaurantRepo repository.RestaurantRepository,
	carts cart.Store,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		restaurantRepo: restaurantRepo,
		carts:          carts,
		publisher:      publisher,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

// Checkout turns the session cart into an order. Prices are re-read from
// the current product records, not from the cart snapshot.
func (s *orderService) Checkout(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrRestaurantNotFound
	}
	if !restaurant.IsActive {
		s.logger.Warn().Str("restaurant_id", restaurantID.String()).Msg("checkout on inactive restaurant")
		return nil, model.ErrRestaurantInactive
	}

	sessionKey := cartSessionKey(restaurantID, sessionID)
	c, err := s.carts.Load(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, model.ErrEmptyCart
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		RestaurantID:    restaurantID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		OrderType:       req.OrderType,
		Status:          model.OrderStatusPending,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	orderItems, err := s.priceLines(ctx, restaurantID, order.ID, c.Lines())
	if err != nil {
		return nil, err
	}
	order.Total = decimal.Zero
	for _, item := range orderItems {
		order.Total = order.Total.Add(item.LineTotal)
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	customer := &model.Customer{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         order.CustomerName,
		Phone:        order.CustomerPhone,
		Email:        strings.TrimSpace(req.CustomerEmail),
		Address:      order.DeliveryAddress,
	}
	customerID, err := s.customerRepo.RecordOrder(ctx, tx, customer, order.Total)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to record customer")
		return nil, fmt.Errorf("failed to record customer: %w", err)
	}
	order.CustomerID = &customerID

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order exists from here on; later failures are only logged.
	if delErr := s.carts.Delete(ctx, sessionKey); delErr != nil {
		s.logger.Warn().Err(delErr).Str("order_id", order.ID.String()).Msg("failed to clear cart")
	}
	s.notify(ctx, realtime.OrderCreated, order)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("restaurant_id", restaurantID.String()).
		Int("item_count", len(orderItems)).
		Str("total", order.Total.String()).
		Msg("order created successfully")

	return &model.OrderResponse{Order: *order, Items: orderItems}, nil
}

// priceLines checks every cart line against the current products and
// builds the order items.
func (s *orderService) priceLines(ctx context.Context, restaurantID, orderID uuid.UUID, lines []cart.Line) ([]model.OrderItem, error) {
	productIDs := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.Product.ID] {
			seen[line.Product.ID] = true
			productIDs = append(productIDs, line.Product.ID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, restaurantID, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		product, ok := byID[line.Product.ID]
		if !ok || product.IsArchived {
			s.logger.Warn().Str("product_id", line.Product.ID.String()).Msg("cart product no longer exists")
			return nil, model.ErrProductNotFound
		}
		if !product.IsAvailable {
			s.logger.Warn().Str("product_id", product.ID.String()).Msg("cart product unavailable")
			return nil, model.ErrProductUnavailable
		}

		variation, ok := product.Variation(line.Variation.ID)
		if !ok {
			return nil, model.ErrVariationNotFound
		}

		current := cart.Line{
			Product:   product,
			Variation: variation,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
		}
		names := make([]string, len(line.SelectedIngredients))
		for j, selected := range line.SelectedIngredients {
			ingredient, ok := product.Ingredient(selected.ID)
			if !ok {
				return nil, model.ErrIngredientNotFound
			}
			current.SelectedIngredients = append(current.SelectedIngredients, ingredient)
			names[j] = ingredient.Name
		}

		items[i] = model.OrderItem{
			ID:            uuid.New(),
			OrderID:       orderID,
			ProductID:     product.ID,
			VariationID:   variation.ID,
			ProductName:   product.Name,
			VariationName: variation.Name,
			UnitPrice:     current.UnitPrice(),
			Quantity:      current.Quantity,
			Ingredients:   names,
			Notes:         current.Notes,
			LineTotal:     current.Total(),
		}
	}

	return items, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrNotFound
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// UpdateStatus moves an order along its lifecycle.
func (s *orderService) UpdateStatus(ctx context.Context, restaurantID, id uuid.UUID, status model.OrderStatus) (*model.OrderResponse, error) {
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("Unknown order status %q", status))
	}

	resp, err := s.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	from := resp.Status
	if !from.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(status)).
			Msg("invalid status transition")
		return nil, model.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, restaurantID, id, from, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	resp.Status = status
	resp.UpdatedAt = time.Now()
	s.notify(ctx, realtime.OrderUpdated, &resp.Order)

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order status updated")

	return resp, nil
}

func (s *orderService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Order], error) {
	page, err := s.orderRepo.List(ctx, restaurantID, q)
	if err != nil {
		return page, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

func (s *orderService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.OrderStats, error) {
	stats, err := s.orderRepo.Stats(ctx, restaurantID)
	if err != nil {
		return stats, fmt.Errorf("failed to get order stats: %w", err)
	}
	return stats, nil
}

// validateCheckoutRequest validates the checkout request.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}

	switch req.OrderType {
	case model.OrderTypeDineIn, model.OrderTypeTakeaway:
	case model.OrderTypeDelivery:
		if strings.TrimSpace(req.DeliveryAddress) == "" {
			return model.NewDomainError(model.ErrCodeValidation, "Delivery orders need an address")
		}
	default:
		return model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("Unknown order type %q", req.OrderType))
	}

	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Customer name and phone are required")
	}

	return nil
}

func (s *orderService) notify(ctx context.Context, eventType string, order *model.Order) {
	event := realtime.NewEvent(realtime.TopicOrders, eventType, order.RestaurantID, order.ID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}
}
