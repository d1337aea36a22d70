package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tablekart/internal/auth"
	"tablekart/internal/model"
	"tablekart/internal/subscription"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func signed(t *testing.T, userID uuid.UUID, role model.Role, ttl time.Duration) string {
	t.Helper()
	token, err := auth.Sign(testSecret, userID, "owner@example.com", role, ttl)
	require.NoError(t, err)
	return token
}

func TestBearerAuth(t *testing.T) {
	userID := uuid.New()
	verifier := auth.NewVerifier(testSecret)

	tests := []struct {
		name           string
		setup          func(r *http.Request)
		expectedStatus int
		expectHandler  bool
	}{
		{
			name: "Header token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signed(t, userID, model.RoleRestaurantOwner, time.Hour))
			},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name: "Query token for event streams",
			setup: func(r *http.Request) {
				r.URL.RawQuery = "access_token=" + signed(t, userID, model.RoleRestaurantOwner, time.Hour)
			},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing token",
			setup:          func(*http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signed(t, userID, model.RoleRestaurantOwner, -time.Minute))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Token signed with another secret",
			setup: func(r *http.Request) {
				token, err := auth.Sign("other", userID, "x@example.com", model.RoleSuperadmin, time.Hour)
				require.NoError(t, err)
				r.Header.Set("Authorization", "Bearer "+token)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/orders", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			BearerAuth(verifier, zerolog.Nop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectHandler {
				require.NotNil(t, got)
				assert.Equal(t, userID, got.UserID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		principal      *auth.Principal
		expectedStatus int
	}{
		{"Superadmin", &auth.Principal{UserID: uuid.New(), Role: model.RoleSuperadmin}, http.StatusOK},
		{"Owner", &auth.Principal{UserID: uuid.New(), Role: model.RoleRestaurantOwner}, http.StatusForbidden},
		{"Anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.principal != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), tt.principal))
			}
			w := httptest.NewRecorder()

			RequireRole(zerolog.Nop(), model.RoleSuperadmin)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

type fakeRestaurants struct {
	restaurant *model.Restaurant
	err        error
}

func (f fakeRestaurants) GetByOwner(context.Context, uuid.UUID) (*model.Restaurant, error) {
	return f.restaurant, f.err
}

type fakeSubscriptions struct {
	sub *model.Subscription
	err error
}

func (f fakeSubscriptions) Latest(context.Context, uuid.UUID) (*model.Subscription, error) {
	return f.sub, f.err
}

func TestTenant(t *testing.T) {
	restaurant := &model.Restaurant{ID: uuid.New(), Name: "Trattoria"}

	tests := []struct {
		name           string
		finder         fakeRestaurants
		expectedStatus int
	}{
		{"Owner with restaurant", fakeRestaurants{restaurant: restaurant}, http.StatusOK},
		{"Owner without restaurant", fakeRestaurants{}, http.StatusNotFound},
		{"Lookup failure", fakeRestaurants{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.Restaurant
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = RestaurantFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/products", nil)
			req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{UserID: uuid.New(), Role: model.RoleRestaurantOwner}))
			w := httptest.NewRecorder()

			Tenant(tt.finder, zerolog.Nop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Same(t, restaurant, got)
			}
		})
	}
}

func TestSubscriptionGate(t *testing.T) {
	restaurant := &model.Restaurant{ID: uuid.New()}

	tests := []struct {
		name           string
		role           model.Role
		subs           fakeSubscriptions
		expectedStatus int
		expectedReason subscription.Reason
	}{
		{
			name:           "Active subscription",
			role:           model.RoleRestaurantOwner,
			subs:           fakeSubscriptions{sub: &model.Subscription{Status: model.SubscriptionActive, EndsAt: time.Now().Add(48 * time.Hour)}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No subscription",
			role:           model.RoleRestaurantOwner,
			expectedStatus: http.StatusPaymentRequired,
			expectedReason: subscription.ReasonNoSubscription,
		},
		{
			name:           "Expired subscription",
			role:           model.RoleRestaurantOwner,
			subs:           fakeSubscriptions{sub: &model.Subscription{Status: model.SubscriptionActive, EndsAt: time.Now().Add(-time.Hour)}},
			expectedStatus: http.StatusPaymentRequired,
			expectedReason: subscription.ReasonExpired,
		},
		{
			name:           "Lookup failure fails open",
			role:           model.RoleRestaurantOwner,
			subs:           fakeSubscriptions{err: errors.New("db down")},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Superadmin bypasses",
			role:           model.RoleSuperadmin,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := subscription.NewGuard(fakeRestaurants{restaurant: restaurant}, tt.subs, zerolog.Nop())
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/analytics", nil)
			req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{UserID: uuid.New(), Role: tt.role}))
			w := httptest.NewRecorder()

			SubscriptionGate(guard, zerolog.Nop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusPaymentRequired {
				var body struct {
					Error  string `json:"error"`
					Reason string `json:"reason"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, model.ErrCodeSubscriptionRequired, body.Error)
				assert.Equal(t, string(tt.expectedReason), body.Reason)
			}
		})
	}
}
