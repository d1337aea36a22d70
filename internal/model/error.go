package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeRestaurantNotFound   = "RESTAURANT_NOT_FOUND"
	ErrCodeRestaurantInactive   = "RESTAURANT_INACTIVE"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable   = "PRODUCT_UNAVAILABLE"
	ErrCodeVariationNotFound    = "VARIATION_NOT_FOUND"
	ErrCodeIngredientNotFound   = "INGREDIENT_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidStatus        = "INVALID_STATUS_TRANSITION"
	ErrCodeSlugTaken            = "SLUG_TAKEN"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ErrCodePlanNotFound         = "PLAN_NOT_FOUND"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeFunctionFailed       = "FUNCTION_FAILED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrRestaurantNotFound   = NewDomainError(ErrCodeRestaurantNotFound, "Restaurant not found")
	ErrRestaurantInactive   = NewDomainError(ErrCodeRestaurantInactive, "Restaurant is not accepting orders")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrProductUnavailable   = NewDomainError(ErrCodeProductUnavailable, "One or more products are not available")
	ErrVariationNotFound    = NewDomainError(ErrCodeVariationNotFound, "Variation does not belong to product")
	ErrIngredientNotFound   = NewDomainError(ErrCodeIngredientNotFound, "Ingredient does not belong to product")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidStatus        = NewDomainError(ErrCodeInvalidStatus, "Status transition is not allowed")
	ErrSlugTaken            = NewDomainError(ErrCodeSlugTaken, "Slug is already in use")
	ErrSubscriptionRequired = NewDomainError(ErrCodeSubscriptionRequired, "An active subscription is required")
	ErrPlanNotFound         = NewDomainError(ErrCodePlanNotFound, "Subscription plan not found")
	ErrForbidden            = NewDomainError(ErrCodeForbidden, "Not allowed to access this resource")
	ErrUnauthorised         = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrRestaurantExists     = NewDomainError(ErrCodeConflict, "User already owns a restaurant")
)

// AsDomainError unwraps err into a DomainError when it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
