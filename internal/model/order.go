package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderType describes how the order reaches the customer.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// Order represents a customer order.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	RestaurantID    uuid.UUID       `json:"restaurantId" db:"restaurant_id"`
	CustomerID      *uuid.UUID      `json:"customerId,omitempty" db:"customer_id"`
	CustomerName    string          `json:"customerName" db:"customer_name"`
	CustomerPhone   string          `json:"customerPhone" db:"customer_phone"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty" db:"delivery_address"`
	OrderType       OrderType       `json:"orderType" db:"order_type"`
	Status          OrderStatus     `json:"status" db:"status"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	Total           decimal.Decimal `json:"total" db:"total"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Names and prices are copied
// from the product at checkout time.
type OrderItem struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderID       uuid.UUID       `json:"-" db:"order_id"`
	ProductID     uuid.UUID       `json:"productId" db:"product_id"`
	VariationID   uuid.UUID       `json:"variationId" db:"variation_id"`
	ProductName   string          `json:"productName" db:"product_name"`
	VariationName string          `json:"variationName" db:"variation_name"`
	UnitPrice     decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity      int             `json:"quantity" db:"quantity"`
	Ingredients   []string        `json:"ingredients" db:"ingredients"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	LineTotal     decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// CheckoutRequest represents the request payload for turning a cart into an order.
type CheckoutRequest struct {
	CustomerName    string    `json:"customerName" validate:"required,max=120"`
	CustomerPhone   string    `json:"customerPhone" validate:"required,max=40"`
	CustomerEmail   string    `json:"customerEmail" validate:"omitempty,email"`
	DeliveryAddress string    `json:"deliveryAddress" validate:"required_if=OrderType delivery,max=255"`
	OrderType       OrderType `json:"orderType" validate:"required,oneof=dine_in takeaway delivery"`
	Notes           string    `json:"notes" validate:"max=500"`
}

// OrderStatusRequest changes the status of an order.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderStats is the unfiltered aggregate shown above the order list.
type OrderStats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Delivered int             `json:"delivered"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}
