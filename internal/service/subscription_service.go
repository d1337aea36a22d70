package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/repository"
	"tablekart/internal/subscription"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	planRepo         repository.PlanRepository
	restaurantRepo   repository.RestaurantRepository
	now              func() time.Time
	logger           zerolog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	restaurantRepo repository.RestaurantRepository,
	logger zerolog.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		restaurantRepo:   restaurantRepo,
		now:              time.Now,
		logger:           logger.With().Str("service", "subscription").Logger(),
	}
}

func (s *subscriptionService) Status(ctx context.Context, restaurantID uuid.UUID) (subscription.Status, error) {
	sub, err := s.subscriptionRepo.Latest(ctx, restaurantID)
	if err != nil {
		return subscription.Status{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return subscription.Compute(sub, s.now()), nil
}

func (s *subscriptionService) List(ctx context.Context, q listing.Query) (listing.Page[model.Subscription], error) {
	page, err := s.subscriptionRepo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return page, nil
}

func (s *subscriptionService) Stats(ctx context.Context) (model.SubscriptionStats, error) {
	stats, err := s.subscriptionRepo.Stats(ctx, s.now())
	if err != nil {
		return stats, fmt.Errorf("failed to get subscription stats: %w", err)
	}
	return stats, nil
}

func (s *subscriptionService) Create(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error) {
	if req.DurationMonths < 1 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Duration must be at least one month")
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrRestaurantNotFound
	}

	plan, err := s.activePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &model.Subscription{
		ID:             uuid.New(),
		RestaurantID:   restaurant.ID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		DurationMonths: req.DurationMonths,
		Status:         model.SubscriptionActive,
		Price:          planPrice(plan, req.DurationMonths),
		StartsAt:       now,
		EndsAt:         now.AddDate(0, req.DurationMonths, 0),
		CreatedAt:      now,
	}
	if req.Trial {
		sub.Status = model.SubscriptionTrial
		sub.Price = decimal.Zero
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.Info().
		Str("subscription_id", sub.ID.String()).
		Str("restaurant_id", restaurant.ID.String()).
		Str("plan", plan.Name).
		Int("months", req.DurationMonths).
		Msg("subscription created")

	return sub, nil
}

// Renew extends from the end date when it is still ahead, otherwise from now.
func (s *subscriptionService) Renew(ctx context.Context, id uuid.UUID, months int) (*model.Subscription, error) {
	if months < 1 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Duration must be at least one month")
	}

	sub, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, model.ErrPlanNotFound
	}

	start := s.now()
	if sub.EndsAt.After(start) {
		start = sub.EndsAt
	}
	endsAt := start.AddDate(0, months, 0)
	price := planPrice(plan, months)

	if err := s.subscriptionRepo.Extend(ctx, id, endsAt, months, price); err != nil {
		return nil, fmt.Errorf("failed to renew subscription: %w", err)
	}

	sub.EndsAt = endsAt
	sub.DurationMonths += months
	sub.Price = sub.Price.Add(price)
	sub.Status = model.SubscriptionActive

	s.logger.Info().
		Str("subscription_id", id.String()).
		Int("months", months).
		Time("ends_at", endsAt).
		Msg("subscription renewed")

	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	sub, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.SubscriptionCancelled {
		return sub, nil
	}

	if err := s.subscriptionRepo.SetStatus(ctx, id, model.SubscriptionCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	sub.Status = model.SubscriptionCancelled

	s.logger.Info().Str("subscription_id", id.String()).Msg("subscription cancelled")
	return sub, nil
}

func (s *subscriptionService) get(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, model.ErrNotFound
	}
	return sub, nil
}

func (s *subscriptionService) activePlan(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil || !plan.IsActive {
		return nil, model.ErrPlanNotFound
	}
	return plan, nil
}

func planPrice(plan *model.SubscriptionPlan, months int) decimal.Decimal {
	return plan.MonthlyPrice.Mul(decimal.NewFromInt(int64(months)))
}

func (s *subscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	plans, err := s.planRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *subscriptionService) CreatePlan(ctx context.Context, req *model.PlanRequest) (*model.SubscriptionPlan, error) {
	if err := validatePlanRequest(req); err != nil {
		return nil, err
	}

	plan := &model.SubscriptionPlan{
		ID:        uuid.New(),
		CreatedAt: s.now(),
	}
	applyPlanRequest(plan, req)

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.Info().Str("plan_id", plan.ID.String()).Str("name", plan.Name).Msg("plan created")
	return plan, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, id uuid.UUID, req *model.PlanRequest) (*model.SubscriptionPlan, error) {
	if err := validatePlanRequest(req); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, model.ErrPlanNotFound
	}
	applyPlanRequest(plan, req)

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

func (s *subscriptionService) SetPlanActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.planRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to toggle plan: %w", err)
	}
	return nil
}

func validatePlanRequest(req *model.PlanRequest) error {
	if req.MonthlyPrice.IsNegative() {
		return model.NewDomainError(model.ErrCodeValidation, "Monthly price cannot be negative")
	}
	return nil
}

func applyPlanRequest(plan *model.SubscriptionPlan, req *model.PlanRequest) {
	plan.Name = strings.TrimSpace(req.Name)
	plan.Description = req.Description
	plan.MonthlyPrice = req.MonthlyPrice
	plan.IsActive = req.IsActive

	plan.Features = make([]string, 0, len(req.Features))
	for _, f := range req.Features {
		if f = strings.TrimSpace(f); f != "" {
			plan.Features = append(plan.Features, f)
		}
	}
}
