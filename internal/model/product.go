package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products on the menu.
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RestaurantID uuid.UUID `json:"restaurantId" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Position     int       `json:"position" db:"position"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Position int    `json:"position" validate:"gte=0"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Product is a menu item. Variations and Ingredients are empty on the lite
// representation used by the public menu listing.
type Product struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	RestaurantID uuid.UUID    `json:"restaurantId" db:"restaurant_id"`
	CategoryID   *uuid.UUID   `json:"categoryId,omitempty" db:"category_id"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	ImageURL     string       `json:"imageUrl" db:"image_url"`
	IsAvailable  bool         `json:"isAvailable" db:"is_available"`
	IsArchived   bool         `json:"isArchived" db:"is_archived"`
	Position     int          `json:"position" db:"position"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	Variations   []Variation  `json:"variations,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
}

// BasePrice returns the cheapest variation price, used for "from" prices.
func (p Product) BasePrice() decimal.Decimal {
	if len(p.Variations) == 0 {
		return decimal.Zero
	}
	lowest := p.Variations[0].Price
	for _, v := range p.Variations[1:] {
		if v.Price.LessThan(lowest) {
			lowest = v.Price
		}
	}
	return lowest
}

// Variation finds a variation of the product by id.
func (p Product) Variation(id uuid.UUID) (Variation, bool) {
	for _, v := range p.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return Variation{}, false
}

// Ingredient finds an ingredient of the product by id.
func (p Product) Ingredient(id uuid.UUID) (Ingredient, bool) {
	for _, in := range p.Ingredients {
		if in.ID == id {
			return in, true
		}
	}
	return Ingredient{}, false
}

// Variation is a sized or styled version of a product carrying its own price.
type Variation struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Position  int             `json:"position" db:"position"`
}

// Ingredient is a product component. Optional ingredients may carry an
// extra cost when selected.
type Ingredient struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ProductID  uuid.UUID       `json:"productId" db:"product_id"`
	Name       string          `json:"name" db:"name"`
	IsOptional bool            `json:"isOptional" db:"is_optional"`
	ExtraCost  decimal.Decimal `json:"extraCost" db:"extra_cost"`
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	CategoryID  *uuid.UUID          `json:"categoryId,omitempty"`
	Name        string              `json:"name" validate:"required,max=120"`
	Description string              `json:"description" validate:"max=2000"`
	ImageURL    string              `json:"imageUrl" validate:"omitempty,url"`
	IsAvailable bool                `json:"isAvailable"`
	Position    int                 `json:"position" validate:"gte=0"`
	Variations  []VariationRequest  `json:"variations" validate:"required,min=1,dive"`
	Ingredients []IngredientRequest `json:"ingredients" validate:"dive"`
}

// VariationRequest is one variation in a ProductRequest.
type VariationRequest struct {
	Name  string          `json:"name" validate:"required,max=80"`
	Price decimal.Decimal `json:"price"`
}

// IngredientRequest is one ingredient in a ProductRequest.
type IngredientRequest struct {
	Name       string          `json:"name" validate:"required,max=80"`
	IsOptional bool            `json:"isOptional"`
	ExtraCost  decimal.Decimal `json:"extraCost"`
}

// ProductStats is the unfiltered aggregate shown above product lists.
type ProductStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Archived    int `json:"archived"`
}
