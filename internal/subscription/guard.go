package subscription

import (
	"context"
	"time"

	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Reason explains a guard decision.
type Reason string

const (
	ReasonActive         Reason = "active"
	ReasonSuperadmin     Reason = "superadmin"
	ReasonNoRestaurant   Reason = "no_restaurant"
	ReasonNoSubscription Reason = "no_subscription"
	ReasonExpired        Reason = "expired"
	ReasonInactive       Reason = "inactive"
	ReasonLookupFailed   Reason = "lookup_failed"
)

// Decision is the outcome of a guard check. Restaurant is nil when the user
// owns none or the lookup failed.
type Decision struct {
	Allowed    bool              `json:"allowed"`
	Reason     Reason            `json:"reason"`
	Restaurant *model.Restaurant `json:"-"`
	Status     Status            `json:"status"`
}

// RestaurantFinder resolves the restaurant a user owns.
type RestaurantFinder interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error)
}

// SubscriptionFinder resolves a restaurant's newest subscription.
type SubscriptionFinder interface {
	Latest(ctx context.Context, restaurantID uuid.UUID) (*model.Subscription, error)
}

// Guard gates subscription-only features. Lookup errors never lock a user
// out: they are logged and the request is allowed.
type Guard struct {
	restaurants   RestaurantFinder
	subscriptions SubscriptionFinder
	now           func() time.Time
	logger        zerolog.Logger
}

// NewGuard creates a guard over the given lookups.
func NewGuard(restaurants RestaurantFinder, subscriptions SubscriptionFinder, logger zerolog.Logger) *Guard {
	return &Guard{
		restaurants:   restaurants,
		subscriptions: subscriptions,
		now:           time.Now,
		logger:        logger.With().Str("component", "subscription_guard").Logger(),
	}
}

// Check decides whether userID may use gated features.
func (g *Guard) Check(ctx context.Context, userID uuid.UUID, role model.Role) Decision {
	if role == model.RoleSuperadmin {
		return Decision{Allowed: true, Reason: ReasonSuperadmin}
	}

	restaurant, err := g.restaurants.GetByOwner(ctx, userID)
	if err != nil {
		g.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("restaurant lookup failed, allowing")
		return Decision{Allowed: true, Reason: ReasonLookupFailed}
	}
	if restaurant == nil {
		// Onboarding: nothing to gate yet.
		return Decision{Allowed: true, Reason: ReasonNoRestaurant}
	}

	sub, err := g.subscriptions.Latest(ctx, restaurant.ID)
	if err != nil {
		g.logger.Warn().Err(err).Str("restaurant_id", restaurant.ID.String()).Msg("subscription lookup failed, allowing")
		return Decision{Allowed: true, Reason: ReasonLookupFailed, Restaurant: restaurant}
	}

	status := Compute(sub, g.now())
	d := Decision{Restaurant: restaurant, Status: status}

	switch {
	case !status.HasSubscription:
		d.Reason = ReasonNoSubscription
	case status.IsActive:
		d.Allowed = true
		d.Reason = ReasonActive
	case status.IsExpired:
		d.Reason = ReasonExpired
	default:
		d.Reason = ReasonInactive
	}

	return d
}
