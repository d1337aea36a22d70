package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus is the stored state of a subscription record.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a restaurant's plan, status and validity window.
type Subscription struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	RestaurantID   uuid.UUID          `json:"restaurantId" db:"restaurant_id"`
	PlanID         uuid.UUID          `json:"planId" db:"plan_id"`
	PlanName       string             `json:"planName" db:"plan_name"`
	DurationMonths int                `json:"durationMonths" db:"duration_months"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	Price          decimal.Decimal    `json:"price" db:"price"`
	StartsAt       time.Time          `json:"startsAt" db:"starts_at"`
	EndsAt         time.Time          `json:"endsAt" db:"ends_at"`
	CreatedAt      time.Time          `json:"createdAt" db:"created_at"`
}

// SubscriptionPlan is a sellable plan.
type SubscriptionPlan struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice" db:"monthly_price"`
	Features     []string        `json:"features" db:"features"`
	IsActive     bool            `json:"isActive" db:"is_active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// PlanRequest is the payload for creating or updating a plan.
type PlanRequest struct {
	Name         string          `json:"name" validate:"required,max=80"`
	Description  string          `json:"description" validate:"max=500"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
	Features     []string        `json:"features"`
	IsActive     bool            `json:"isActive"`
}

// SubscriptionRequest creates a subscription for a restaurant.
type SubscriptionRequest struct {
	RestaurantID   uuid.UUID `json:"restaurantId" validate:"required"`
	PlanID         uuid.UUID `json:"planId" validate:"required"`
	DurationMonths int       `json:"durationMonths" validate:"required,oneof=1 3 6 12"`
	Trial          bool      `json:"trial"`
}

// RenewRequest extends a subscription.
type RenewRequest struct {
	DurationMonths int `json:"durationMonths" validate:"required,oneof=1 3 6 12"`
}

// SubscriptionStats is the unfiltered aggregate shown above the subscription list.
type SubscriptionStats struct {
	Total        int             `json:"total"`
	Active       int             `json:"active"`
	Expired      int             `json:"expired"`
	ExpiringSoon int             `json:"expiringSoon"`
	Revenue      decimal.Decimal `json:"revenue"`
}
