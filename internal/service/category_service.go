package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context, restaurantID uuid.UUID) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListByRestaurant(ctx, restaurantID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, restaurantID uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	category := &model.Category{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Position:     req.Position,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Str("category_id", category.ID.String()).Msg("category created")
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrNotFound
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Position = req.Position
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, restaurantID, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}
