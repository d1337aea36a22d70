package middleware

import (
	"context"
	"net/http"

	"tablekart/internal/auth"
	"tablekart/internal/model"
	"tablekart/internal/subscription"

	"github.com/rs/zerolog"
)

type restaurantKey struct{}

// WithRestaurant stores the caller's restaurant in ctx.
func WithRestaurant(ctx context.Context, r *model.Restaurant) context.Context {
	return context.WithValue(ctx, restaurantKey{}, r)
}

// RestaurantFromContext returns the restaurant stored by Tenant.
func RestaurantFromContext(ctx context.Context) (*model.Restaurant, bool) {
	r, ok := ctx.Value(restaurantKey{}).(*model.Restaurant)
	return r, ok && r != nil
}

// Tenant resolves the restaurant owned by the authenticated caller and
// scopes the request to it.
func Tenant(restaurants subscription.RestaurantFinder, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required")
				return
			}

			restaurant, err := restaurants.GetByOwner(r.Context(), principal.UserID)
			if err != nil {
				logger.Error().Err(err).Str("user_id", principal.UserID.String()).Msg("failed to resolve restaurant")
				writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error")
				return
			}
			if restaurant == nil {
				writeError(w, http.StatusNotFound, model.ErrCodeRestaurantNotFound, "Create your restaurant first")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRestaurant(r.Context(), restaurant)))
		})
	}
}

// upsellResponse is the 402 body of a gated route.
type upsellResponse struct {
	model.ErrorResponse
	Reason subscription.Reason `json:"reason"`
	Status subscription.Status `json:"status"`
}

// SubscriptionGate blocks gated features for restaurants without a running
// subscription. The guard fails open on lookup errors.
func SubscriptionGate(guard *subscription.Guard, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required")
				return
			}

			decision := guard.Check(r.Context(), principal.UserID, principal.Role)
			if !decision.Allowed {
				logger.Info().
					Str("user_id", principal.UserID.String()).
					Str("reason", string(decision.Reason)).
					Str("path", r.URL.Path).
					Msg("gated feature blocked")
				writeJSON(w, http.StatusPaymentRequired, upsellResponse{
					ErrorResponse: model.ErrorResponse{
						Error:   model.ErrCodeSubscriptionRequired,
						Message: upsellMessage(decision.Reason),
					},
					Reason: decision.Reason,
					Status: decision.Status,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func upsellMessage(reason subscription.Reason) string {
	switch reason {
	case subscription.ReasonExpired:
		return "Your subscription has expired. Renew it to keep using this feature."
	case subscription.ReasonNoSubscription:
		return "This feature is available on paid plans. Choose a plan to unlock it."
	}
	return model.ErrSubscriptionRequired.Message
}
