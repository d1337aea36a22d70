package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a person who has ordered from a restaurant.
type Customer struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	RestaurantID uuid.UUID       `json:"restaurantId" db:"restaurant_id"`
	Name         string          `json:"name" db:"name"`
	Phone        string          `json:"phone" db:"phone"`
	Email        string          `json:"email,omitempty" db:"email"`
	Address      string          `json:"address,omitempty" db:"address"`
	OrdersCount  int             `json:"ordersCount" db:"orders_count"`
	TotalSpent   decimal.Decimal `json:"totalSpent" db:"total_spent"`
	LastOrderAt  *time.Time      `json:"lastOrderAt,omitempty" db:"last_order_at"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// CustomerRequest is the payload for creating or updating a customer.
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,max=40"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=255"`
}

// CustomerStats is the unfiltered aggregate shown above the customer list.
type CustomerStats struct {
	Total        int             `json:"total"`
	NewThisMonth int             `json:"newThisMonth"`
	Returning    int             `json:"returning"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

// ImportResult summarises a customer CSV import.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// ImportError describes one rejected CSV row.
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
