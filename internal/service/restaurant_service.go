package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tablekart/internal/functions"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultCurrency is used when a new restaurant does not pick one.
const DefaultCurrency = "EUR"

const maxSlugAttempts = 50

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
	userRepo       repository.UserRepository
	functions      functions.Client
	logger         zerolog.Logger
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(
	restaurantRepo repository.RestaurantRepository,
	userRepo repository.UserRepository,
	fn functions.Client,
	logger zerolog.Logger,
) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		userRepo:       userRepo,
		functions:      fn,
		logger:         logger.With().Str("service", "restaurant").Logger(),
	}
}

func (s *restaurantService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrRestaurantNotFound
	}
	return restaurant, nil
}

func (s *restaurantService) Create(ctx context.Context, ownerID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error) {
	existing, err := s.restaurantRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if existing != nil {
		return nil, model.ErrRestaurantExists
	}

	slug, err := s.pickSlug(ctx, req, uuid.Nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	restaurant := &model.Restaurant{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Slug:      slug,
		Currency:  DefaultCurrency,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySettings(restaurant, req)

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	s.logger.Info().
		Str("restaurant_id", restaurant.ID.String()).
		Str("slug", restaurant.Slug).
		Msg("restaurant created")

	return restaurant, nil
}

func (s *restaurantService) UpdateSettings(ctx context.Context, restaurantID uuid.UUID, req *model.RestaurantSettings) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrRestaurantNotFound
	}

	if req.Slug != "" {
		slug, err := s.pickSlug(ctx, req, restaurantID)
		if err != nil {
			return nil, err
		}
		restaurant.Slug = slug
	}
	applySettings(restaurant, req)

	if err := s.restaurantRepo.UpdateSettings(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info().Str("restaurant_id", restaurantID.String()).Msg("restaurant settings updated")
	return restaurant, nil
}

// pickSlug normalises an explicit slug, which must be free, or derives one
// from the name, appending -2, -3... until it is free.
func (s *restaurantService) pickSlug(ctx context.Context, req *model.RestaurantSettings, self uuid.UUID) (string, error) {
	if req.Slug != "" {
		slug := Slugify(req.Slug)
		if slug == "" {
			return "", model.NewDomainError(model.ErrCodeValidation, "Slug must contain letters or digits")
		}
		taken, err := s.restaurantRepo.SlugExists(ctx, slug, self)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if taken {
			return "", model.ErrSlugTaken
		}
		return slug, nil
	}

	base := Slugify(req.Name)
	if base == "" {
		base = "restaurant"
	}
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = base + "-" + strconv.Itoa(i)
		}
		taken, err := s.restaurantRepo.SlugExists(ctx, candidate, self)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", model.ErrSlugTaken
}

func applySettings(r *model.Restaurant, req *model.RestaurantSettings) {
	r.Name = strings.TrimSpace(req.Name)
	r.Description = req.Description
	r.Phone = strings.TrimSpace(req.Phone)
	r.Address = strings.TrimSpace(req.Address)
	if req.Currency != "" {
		r.Currency = strings.ToUpper(req.Currency)
	}
	r.CustomDomain = nil
	if req.CustomDomain != nil {
		if domain := normaliseHost(*req.CustomDomain); domain != "" {
			r.CustomDomain = &domain
		}
	}
}

func (s *restaurantService) List(ctx context.Context, q listing.Query) (listing.Page[model.Restaurant], error) {
	page, err := s.restaurantRepo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return page, nil
}

func (s *restaurantService) Stats(ctx context.Context) (model.RestaurantStats, error) {
	stats, err := s.restaurantRepo.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to get restaurant stats: %w", err)
	}
	return stats, nil
}

func (s *restaurantService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.restaurantRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to toggle restaurant: %w", err)
	}
	s.logger.Info().Str("restaurant_id", id.String()).Bool("active", active).Msg("restaurant toggled")
	return nil
}

func (s *restaurantService) Delete(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if err := s.functions.DeleteRestaurant(ctx, token, id); err != nil {
		return functionError(err)
	}
	s.logger.Info().Str("restaurant_id", id.String()).Msg("restaurant deleted")
	return nil
}

func (s *restaurantService) TransferOwnership(ctx context.Context, token string, id uuid.UUID, newOwnerEmail string) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, newOwnerEmail)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.NewDomainError(model.ErrCodeNotFound, "No user with this email")
	}

	if err := s.functions.TransferOwnership(ctx, token, id, user.Email); err != nil {
		return functionError(err)
	}

	s.logger.Info().
		Str("restaurant_id", id.String()).
		Str("new_owner_id", user.ID.String()).
		Msg("restaurant ownership transferred")
	return nil
}

func (s *restaurantService) mustExist(ctx context.Context, id uuid.UUID) error {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return model.ErrRestaurantNotFound
	}
	return nil
}

// functionError surfaces a function's own message to the caller.
func functionError(err error) error {
	var fnErr *functions.Error
	if errors.As(err, &fnErr) {
		return model.NewDomainError(model.ErrCodeFunctionFailed, fnErr.Message)
	}
	return fmt.Errorf("failed to call function: %w", err)
}
