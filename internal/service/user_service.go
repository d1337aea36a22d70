package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekart/internal/functions"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type userService struct {
	userRepo  repository.UserRepository
	functions functions.Client
	logger    zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, fn functions.Client, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		functions: fn,
		logger:    logger.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context, q listing.Query) (listing.Page[model.User], error) {
	page, err := s.userRepo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

func (s *userService) Stats(ctx context.Context) (model.UserStats, error) {
	stats, err := s.userRepo.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

// Create registers an account through the create-user function and returns
// the stored profile, or the requested one if it is not readable yet.
func (s *userService) Create(ctx context.Context, token string, req *model.CreateUserRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, model.NewDomainError(model.ErrCodeConflict, "A user with this email already exists")
	}

	id, err := s.functions.CreateUser(ctx, token, functions.CreateUserInput{
		Email:    email,
		Password: req.Password,
		FullName: strings.TrimSpace(req.FullName),
		Role:     string(req.Role),
	})
	if err != nil {
		return nil, functionError(err)
	}

	s.logger.Info().Str("user_id", id.String()).Str("role", string(req.Role)).Msg("user created")

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return &model.User{
			ID:        id,
			Email:     email,
			FullName:  strings.TrimSpace(req.FullName),
			Role:      req.Role,
			CreatedAt: time.Now(),
		}, nil
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, token string, callerID, id uuid.UUID) error {
	if callerID == id {
		return model.NewDomainError(model.ErrCodeValidation, "You cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.ErrNotFound
	}

	if err := s.functions.DeleteUser(ctx, token, id); err != nil {
		return functionError(err)
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
