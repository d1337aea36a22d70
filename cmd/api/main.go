package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablekart/internal/auth"
	"tablekart/internal/cart"
	"tablekart/internal/config"
	"tablekart/internal/csvio"
	"tablekart/internal/database"
	"tablekart/internal/functions"
	"tablekart/internal/handler"
	"tablekart/internal/middleware"
	"tablekart/internal/realtime"
	"tablekart/internal/repository"
	"tablekart/internal/router"
	"tablekart/internal/service"
	"tablekart/internal/subscription"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const cartSweepInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting tablekart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	restaurantRepo := repository.NewRestaurantRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(pool, logger)
	planRepo := repository.NewPlanRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	ticketRepo := repository.NewTicketRepository(pool, logger)
	analyticsRepo := repository.NewAnalyticsRepository(pool, logger)

	carts, closeCarts, err := newCartStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCarts()

	// Change events: in-process hub, bridged through Kafka when enabled
	hub := realtime.NewHub(logger)
	publisher, closeBus := newPublisher(ctx, cfg, hub, logger)
	defer closeBus()

	loader := newImportLoader(ctx, cfg, logger)
	fn := functions.NewClient(cfg.Functions.BaseURL, cfg.Functions.Timeout, logger)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	// Initialize services
	menuService := service.NewMenuService(restaurantRepo, categoryRepo, productRepo, cfg.Public.MenuBaseURL, logger)
	cartService := service.NewCartService(carts, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, restaurantRepo, carts, publisher, logger)
	productService := service.NewProductService(productRepo, categoryRepo, publisher, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	customerService := service.NewCustomerService(customerRepo, loader, logger)
	restaurantService := service.NewRestaurantService(restaurantRepo, userRepo, fn, logger)
	userService := service.NewUserService(userRepo, fn, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planRepo, restaurantRepo, logger)
	ticketService := service.NewTicketService(ticketRepo, publisher, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	guard := subscription.NewGuard(restaurantRepo, subscriptionRepo, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	// Initialize HTTP handlers and router
	handlers := router.Handlers{
		Menu:       handler.NewMenuHandler(menuService, logger),
		Cart:       handler.NewCartHandler(cartService, orderService, menuService, logger),
		Product:    handler.NewProductHandler(productService, logger),
		Category:   handler.NewCategoryHandler(categoryService, logger),
		Order:      handler.NewOrderHandler(orderService, logger),
		Customer:   handler.NewCustomerHandler(customerService, logger),
		Restaurant: handler.NewRestaurantHandler(restaurantService, subscriptionService, logger),
		Analytics:  handler.NewAnalyticsHandler(analyticsService, logger),
		Ticket:     handler.NewTicketHandler(ticketService, hub, logger),
		Admin:      handler.NewAdminHandler(restaurantService, userService, subscriptionService, logger),
		Events:     handler.NewEventsHandler(publisher, logger),
		Auth:       handler.NewAuthHandler(verifier, logger),
	}
	mux := router.New(handlers, router.Deps{
		Verifier:       verifier,
		Restaurants:    restaurantRepo,
		Guard:          guard,
		Metrics:        metrics,
		Gatherer:       registry,
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop background workers and end open event streams
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCartStore returns the Redis cart store when enabled, otherwise the
// in-memory store with its expiry janitor.
func newCartStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cart.Store, func(), error) {
	if !cfg.Redis.Enabled {
		store := cart.NewMemoryStore(cfg.Cart.TTL, logger)
		go store.RunJanitor(ctx, cartSweepInterval)
		logger.Info().Msg("using in-memory cart store (Redis disabled)")
		return store, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cart store")

	return cart.NewRedisStore(client, "tablekart:cart:", cfg.Cart.TTL, logger), func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}, nil
}

// newPublisher returns the hub itself, or a Kafka publisher plus a consumer
// that feeds the hub, so every API instance sees every change.
func newPublisher(ctx context.Context, cfg *config.Config, hub *realtime.Hub, logger zerolog.Logger) (realtime.Publisher, func()) {
	if !cfg.Kafka.Enabled {
		logger.Info().Msg("using in-process change events (Kafka disabled)")
		return hub, func() {}
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	// Each instance gets its own group so every hub sees every event. A new
	// group starts at the end of the topic.
	groupID := cfg.Kafka.InstanceGroupID(uuid.NewString())
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
	})
	logger.Info().Str("group_id", groupID).Msg("consuming change events from kafka")

	consumer := realtime.NewConsumer(reader, hub, logger)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("change event consumer failed")
		}
	}()

	return realtime.NewKafkaPublisher(writer, logger), func() {
		if err := writer.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close kafka writer")
		}
		if err := reader.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close kafka reader")
		}
	}
}

// newImportLoader initialises the CSV import loader with S3 and local fallback.
func newImportLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) csvio.Loader {
	fileLoader := csvio.NewFileLoader(cfg.S3.LocalDir, logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for import files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := csvio.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return csvio.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}
