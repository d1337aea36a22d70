package service

import (
	"context"
	"fmt"
	"net"
	"strings"

	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

// QR code sizes in pixels.
const (
	DefaultQRSize = 256
	MinQRSize     = 128
	MaxQRSize     = 1024
)

type menuService struct {
	restaurantRepo repository.RestaurantRepository
	categoryRepo   repository.CategoryRepository
	productRepo    repository.ProductRepository
	menuBaseURL    string
	logger         zerolog.Logger
}

// NewMenuService creates the public menu service. menuBaseURL is the public
// address menus are served under, followed by the slug.
func NewMenuService(
	restaurantRepo repository.RestaurantRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	menuBaseURL string,
	logger zerolog.Logger,
) MenuService {
	return &menuService{
		restaurantRepo: restaurantRepo,
		categoryRepo:   categoryRepo,
		productRepo:    productRepo,
		menuBaseURL:    strings.TrimRight(menuBaseURL, "/"),
		logger:         logger.With().Str("service", "menu").Logger(),
	}
}

func (s *menuService) BySlug(ctx context.Context, slug string) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve restaurant: %w", err)
	}
	return s.served(restaurant, "slug", slug)
}

func (s *menuService) ByDomain(ctx context.Context, host string) (*model.Restaurant, error) {
	domain := normaliseHost(host)
	if domain == "" {
		return nil, model.ErrRestaurantNotFound
	}

	restaurant, err := s.restaurantRepo.GetByDomain(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve restaurant: %w", err)
	}
	return s.served(restaurant, "domain", domain)
}

func (s *menuService) served(restaurant *model.Restaurant, by, value string) (*model.Restaurant, error) {
	if restaurant == nil {
		s.logger.Debug().Str(by, value).Msg("restaurant not found")
		return nil, model.ErrRestaurantNotFound
	}
	if !restaurant.IsActive {
		s.logger.Debug().Str(by, value).Msg("restaurant is inactive")
		return nil, model.ErrRestaurantInactive
	}
	return restaurant, nil
}

func (s *menuService) Menu(ctx context.Context, restaurant *model.Restaurant) (*model.Menu, error) {
	categories, err := s.categoryRepo.ListByRestaurant(ctx, restaurant.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return &model.Menu{Restaurant: *restaurant, Categories: categories}, nil
}

func (s *menuService) Products(ctx context.Context, restaurantID uuid.UUID, categoryID *uuid.UUID, page, pageSize int) (*model.MenuPage, error) {
	q := listing.Query{Page: page, PageSize: pageSize, SortBy: "position"}.
		WithFilter("available", true).
		WithFilter("archived", false)
	if categoryID != nil {
		q = q.WithFilter("category", *categoryID)
	}

	result, err := s.productRepo.List(ctx, restaurantID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu products: %w", err)
	}

	return &model.MenuPage{
		Items:    result.Items,
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
		HasMore:  result.HasMore(),
	}, nil
}

func (s *menuService) Product(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || product.IsArchived || !product.IsAvailable {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

func (s *menuService) QRCode(restaurant *model.Restaurant, size int) ([]byte, error) {
	if size == 0 {
		size = DefaultQRSize
	}
	size = max(MinQRSize, min(size, MaxQRSize))

	png, err := qrcode.Encode(s.menuURL(restaurant), qrcode.Medium, size)
	if err != nil {
		s.logger.Error().Err(err).Str("restaurant_id", restaurant.ID.String()).Msg("failed to encode QR code")
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// menuURL prefers the custom domain when one is configured.
func (s *menuService) menuURL(restaurant *model.Restaurant) string {
	if restaurant.CustomDomain != nil && *restaurant.CustomDomain != "" {
		return "https://" + *restaurant.CustomDomain
	}
	return s.menuBaseURL + "/" + restaurant.Slug
}

// normaliseHost lowercases a Host header value and strips its port.
func normaliseHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
