package model

import "github.com/google/uuid"

// CartAddRequest adds a product to the session cart. A nil IngredientIDs
// selects the product's default ingredients; an empty list selects none.
type CartAddRequest struct {
	ProductID     uuid.UUID   `json:"productId" validate:"required"`
	VariationID   uuid.UUID   `json:"variationId" validate:"required"`
	Quantity      int         `json:"quantity" validate:"gte=0,lte=99"`
	IngredientIDs []uuid.UUID `json:"ingredientIds"`
	Notes         string      `json:"notes" validate:"max=500"`
}

// CartQuantityRequest sets the quantity of one cart line. Zero removes it.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}
