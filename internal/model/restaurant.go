package model

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is the tenant owning products, categories, orders and customers.
type Restaurant struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OwnerID      uuid.UUID `json:"ownerId" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	CustomDomain *string   `json:"customDomain,omitempty" db:"custom_domain"`
	Description  string    `json:"description" db:"description"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	Currency     string    `json:"currency" db:"currency"`
	LogoURL      string    `json:"logoUrl" db:"logo_url"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// RestaurantSettings is the owner-editable part of a restaurant.
type RestaurantSettings struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Slug         string  `json:"slug" validate:"omitempty,max=80"`
	CustomDomain *string `json:"customDomain,omitempty" validate:"omitempty,fqdn"`
	Description  string  `json:"description" validate:"max=1000"`
	Phone        string  `json:"phone" validate:"max=40"`
	Address      string  `json:"address" validate:"max=255"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
}

// RestaurantStats is the unfiltered aggregate shown above the restaurant list.
type RestaurantStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// TransferOwnershipRequest moves a restaurant to another user.
type TransferOwnershipRequest struct {
	NewOwnerEmail string `json:"newOwnerEmail" validate:"required,email"`
}
