package router

import (
	"net/http"

	"tablekart/internal/auth"
	"tablekart/internal/handler"
	"tablekart/internal/middleware"
	"tablekart/internal/model"
	"tablekart/internal/subscription"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Menu       *handler.MenuHandler
	Cart       *handler.CartHandler
	Product    *handler.ProductHandler
	Category   *handler.CategoryHandler
	Order      *handler.OrderHandler
	Customer   *handler.CustomerHandler
	Restaurant *handler.RestaurantHandler
	Analytics  *handler.AnalyticsHandler
	Ticket     *handler.TicketHandler
	Admin      *handler.AdminHandler
	Events     *handler.EventsHandler
	Auth       *handler.AuthHandler
}

// Deps holds what the middleware chain needs.
type Deps struct {
	Verifier       *auth.Verifier
	Restaurants    subscription.RestaurantFinder
	Guard          *subscription.Guard
	Metrics        *middleware.Metrics
	Gatherer       prometheus.Gatherer
	APIKey         string
	AllowedOrigins []string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, deps Deps, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(deps.Metrics.Middleware)

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public menu and cart, addressed by slug or by the request host.
	registerPublic(api.PathPrefix("/public/menus/{slug}").Subrouter(), h)
	registerPublic(api.PathPrefix("/public/domain").Subrouter(), h)

	api.HandleFunc("/auth/recovery", h.Auth.Recovery).Methods(http.MethodPost)

	internal := api.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.APIKeyAuth(deps.APIKey, logger))
	internal.HandleFunc("/events", h.Events.Publish).Methods(http.MethodPost)

	registerDashboard(api.PathPrefix("/dashboard").Subrouter(), h, deps, logger)
	registerAdmin(api.PathPrefix("/admin").Subrouter(), h, deps, logger)

	// Apply middleware in order: Recovery -> Logging -> CORS -> router
	var root http.Handler = r
	root = cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key", handler.CartSessionHeader},
		ExposedHeaders:   []string{handler.CartSessionHeader, "Content-Disposition"},
		AllowCredentials: true,
	}).Handler(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}

func registerPublic(r *mux.Router, h Handlers) {
	r.HandleFunc("", h.Menu.Menu).Methods(http.MethodGet)
	r.HandleFunc("/products", h.Menu.Products).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.Menu.Product).Methods(http.MethodGet)
	r.HandleFunc("/qrcode", h.Menu.QRCode).Methods(http.MethodGet)

	r.HandleFunc("/cart", h.Cart.Get).Methods(http.MethodGet)
	r.HandleFunc("/cart", h.Cart.Clear).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", h.Cart.Add).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{key}", h.Cart.UpdateQuantity).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{key}", h.Cart.Remove).Methods(http.MethodDelete)
	r.HandleFunc("/cart/last-added", h.Cart.ClearLastAdded).Methods(http.MethodDelete)
	r.HandleFunc("/checkout", h.Cart.Checkout).Methods(http.MethodPost)
}

func registerDashboard(r *mux.Router, h Handlers, deps Deps, logger zerolog.Logger) {
	r.Use(middleware.BearerAuth(deps.Verifier, logger))

	// Onboarding works before a restaurant exists.
	r.HandleFunc("/restaurant", h.Restaurant.Mine).Methods(http.MethodGet)
	r.HandleFunc("/restaurant", h.Restaurant.Create).Methods(http.MethodPost)
	r.HandleFunc("/plans", h.Restaurant.Plans).Methods(http.MethodGet)

	owned := r.NewRoute().Subrouter()
	owned.Use(middleware.Tenant(deps.Restaurants, logger))
	owned.HandleFunc("/restaurant", h.Restaurant.UpdateSettings).Methods(http.MethodPut)
	owned.HandleFunc("/subscription", h.Restaurant.Subscription).Methods(http.MethodGet)
	owned.HandleFunc("/tickets", h.Ticket.ListMine).Methods(http.MethodGet)
	owned.HandleFunc("/tickets", h.Ticket.Create).Methods(http.MethodPost)
	owned.HandleFunc("/tickets/stream", h.Ticket.StreamMine).Methods(http.MethodGet)

	gated := owned.NewRoute().Subrouter()
	gated.Use(middleware.SubscriptionGate(deps.Guard, logger))

	gated.HandleFunc("/products", h.Product.List).Methods(http.MethodGet)
	gated.HandleFunc("/products", h.Product.Create).Methods(http.MethodPost)
	gated.HandleFunc("/products/stats", h.Product.Stats).Methods(http.MethodGet)
	gated.HandleFunc("/products/export", h.Product.Export).Methods(http.MethodGet)
	gated.HandleFunc("/products/{id}", h.Product.GetByID).Methods(http.MethodGet)
	gated.HandleFunc("/products/{id}", h.Product.Update).Methods(http.MethodPut)
	gated.HandleFunc("/products/{id}", h.Product.Delete).Methods(http.MethodDelete)
	gated.HandleFunc("/products/{id}/available", h.Product.SetAvailable).Methods(http.MethodPut)
	gated.HandleFunc("/products/{id}/archived", h.Product.SetArchived).Methods(http.MethodPut)

	gated.HandleFunc("/categories", h.Category.List).Methods(http.MethodGet)
	gated.HandleFunc("/categories", h.Category.Create).Methods(http.MethodPost)
	gated.HandleFunc("/categories/{id}", h.Category.Update).Methods(http.MethodPut)
	gated.HandleFunc("/categories/{id}", h.Category.Delete).Methods(http.MethodDelete)

	gated.HandleFunc("/orders", h.Order.List).Methods(http.MethodGet)
	gated.HandleFunc("/orders/stats", h.Order.Stats).Methods(http.MethodGet)
	gated.HandleFunc("/orders/{id}", h.Order.GetByID).Methods(http.MethodGet)
	gated.HandleFunc("/orders/{id}/status", h.Order.UpdateStatus).Methods(http.MethodPut)

	gated.HandleFunc("/customers", h.Customer.List).Methods(http.MethodGet)
	gated.HandleFunc("/customers", h.Customer.Create).Methods(http.MethodPost)
	gated.HandleFunc("/customers/stats", h.Customer.Stats).Methods(http.MethodGet)
	gated.HandleFunc("/customers/export", h.Customer.Export).Methods(http.MethodGet)
	gated.HandleFunc("/customers/import", h.Customer.Import).Methods(http.MethodPost)
	gated.HandleFunc("/customers/{id}", h.Customer.GetByID).Methods(http.MethodGet)
	gated.HandleFunc("/customers/{id}", h.Customer.Update).Methods(http.MethodPut)
	gated.HandleFunc("/customers/{id}", h.Customer.Delete).Methods(http.MethodDelete)

	gated.HandleFunc("/analytics", h.Analytics.Summary).Methods(http.MethodGet)
}

func registerAdmin(r *mux.Router, h Handlers, deps Deps, logger zerolog.Logger) {
	r.Use(middleware.BearerAuth(deps.Verifier, logger))
	r.Use(middleware.RequireRole(logger, model.RoleSuperadmin))

	r.HandleFunc("/restaurants", h.Admin.ListRestaurants).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/stats", h.Admin.RestaurantStats).Methods(http.MethodGet)
	r.HandleFunc("/restaurants/{id}", h.Admin.DeleteRestaurant).Methods(http.MethodDelete)
	r.HandleFunc("/restaurants/{id}/active", h.Admin.SetRestaurantActive).Methods(http.MethodPut)
	r.HandleFunc("/restaurants/{id}/transfer", h.Admin.TransferRestaurant).Methods(http.MethodPost)

	r.HandleFunc("/users", h.Admin.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", h.Admin.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users/stats", h.Admin.UserStats).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", h.Admin.DeleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/subscriptions", h.Admin.ListSubscriptions).Methods(http.MethodGet)
	r.HandleFunc("/subscriptions", h.Admin.CreateSubscription).Methods(http.MethodPost)
	r.HandleFunc("/subscriptions/stats", h.Admin.SubscriptionStats).Methods(http.MethodGet)
	r.HandleFunc("/subscriptions/{id}/renew", h.Admin.RenewSubscription).Methods(http.MethodPost)
	r.HandleFunc("/subscriptions/{id}/cancel", h.Admin.CancelSubscription).Methods(http.MethodPost)

	r.HandleFunc("/plans", h.Admin.ListPlans).Methods(http.MethodGet)
	r.HandleFunc("/plans", h.Admin.CreatePlan).Methods(http.MethodPost)
	r.HandleFunc("/plans/{id}", h.Admin.UpdatePlan).Methods(http.MethodPut)
	r.HandleFunc("/plans/{id}/active", h.Admin.SetPlanActive).Methods(http.MethodPut)

	r.HandleFunc("/tickets", h.Ticket.List).Methods(http.MethodGet)
	r.HandleFunc("/tickets/stats", h.Ticket.Stats).Methods(http.MethodGet)
	r.HandleFunc("/tickets/stream", h.Ticket.Stream).Methods(http.MethodGet)
	r.HandleFunc("/tickets/{id}", h.Ticket.GetByID).Methods(http.MethodGet)
	r.HandleFunc("/tickets/{id}", h.Ticket.Update).Methods(http.MethodPut)
}
