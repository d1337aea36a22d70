package service

import (
	"context"
	"fmt"
	"time"

	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultAnalyticsDays is the range used when none is given.
	DefaultAnalyticsDays = 30
	// MaxAnalyticsDays bounds a single dashboard query.
	MaxAnalyticsDays = 366
	topProducts      = 5
)

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		now:           time.Now,
		logger:        logger.With().Str("service", "analytics").Logger(),
	}
}

// Summary aggregates [from, to). Missing bounds default to the last
// DefaultAnalyticsDays days up to now.
func (s *analyticsService) Summary(ctx context.Context, restaurantID uuid.UUID, from, to *time.Time) (*model.Analytics, error) {
	end := s.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -DefaultAnalyticsDays)
	if from != nil {
		start = *from
	}

	if !start.Before(end) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Start date must be before end date")
	}
	if end.Sub(start) > MaxAnalyticsDays*24*time.Hour {
		return nil, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("Date range cannot exceed %d days", MaxAnalyticsDays))
	}

	summary, err := s.analyticsRepo.Summary(ctx, restaurantID, start, end, topProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics: %w", err)
	}

	s.logger.Debug().
		Str("restaurant_id", restaurantID.String()).
		Int("orders", summary.OrdersCount).
		Msg("analytics computed")

	return summary, nil
}
