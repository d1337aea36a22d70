package service

import (
	"context"
	"errors"
	"testing"

	"tablekart/internal/functions"
	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRestaurantService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	domain := "Menu.Trattoria.PT."

	restRepo := new(MockRestaurantRepository)
	restRepo.On("GetByOwner", ctx, ownerID).Return(nil, nil)
	restRepo.On("SlugExists", ctx, "cafe-lisboa", uuid.Nil).Return(true, nil)
	restRepo.On("SlugExists", ctx, "cafe-lisboa-2", uuid.Nil).Return(true, nil)
	restRepo.On("SlugExists", ctx, "cafe-lisboa-3", uuid.Nil).Return(false, nil)
	restRepo.On("Create", ctx, mock.AnythingOfType("*model.Restaurant")).Return(nil)
	service := NewRestaurantService(restRepo, new(MockUserRepository), new(MockFunctions), zerolog.Nop())

	restaurant, err := service.Create(ctx, ownerID, &model.RestaurantSettings{
		Name:         " Café Lisboa ",
		CustomDomain: &domain,
	})

	require.NoError(t, err)
	assert.Equal(t, "cafe-lisboa-3", restaurant.Slug)
	assert.Equal(t, "Café Lisboa", restaurant.Name)
	assert.Equal(t, DefaultCurrency, restaurant.Currency)
	assert.Equal(t, ownerID, restaurant.OwnerID)
	assert.True(t, restaurant.IsActive)
	require.NotNil(t, restaurant.CustomDomain)
	assert.Equal(t, "menu.trattoria.pt", *restaurant.CustomDomain)
	restRepo.AssertExpectations(t)
}

func TestRestaurantService_Create_Rejected(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Owner already has a restaurant", func(t *testing.T) {
		restRepo := new(MockRestaurantRepository)
		restRepo.On("GetByOwner", ctx, ownerID).Return(&model.Restaurant{ID: uuid.New()}, nil)
		service := NewRestaurantService(restRepo, nil, nil, zerolog.Nop())

		_, err := service.Create(ctx, ownerID, &model.RestaurantSettings{Name: "Second"})

		assert.ErrorIs(t, err, model.ErrRestaurantExists)
	})

	t.Run("Explicit slug taken", func(t *testing.T) {
		restRepo := new(MockRestaurantRepository)
		restRepo.On("GetByOwner", ctx, ownerID).Return(nil, nil)
		restRepo.On("SlugExists", ctx, "my-place", uuid.Nil).Return(true, nil)
		service := NewRestaurantService(restRepo, nil, nil, zerolog.Nop())

		_, err := service.Create(ctx, ownerID, &model.RestaurantSettings{Name: "Whatever", Slug: "My Place"})

		assert.ErrorIs(t, err, model.ErrSlugTaken)
		restRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Explicit slug without letters", func(t *testing.T) {
		restRepo := new(MockRestaurantRepository)
		restRepo.On("GetByOwner", ctx, ownerID).Return(nil, nil)
		service := NewRestaurantService(restRepo, nil, nil, zerolog.Nop())

		_, err := service.Create(ctx, ownerID, &model.RestaurantSettings{Name: "Whatever", Slug: "---"})

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeValidation, de.Code)
	})
}

func TestRestaurantService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	domain := "old.example.com"
	existing := &model.Restaurant{ID: id, Name: "Old", Slug: "old", Currency: "EUR", CustomDomain: &domain, IsActive: true}

	restRepo := new(MockRestaurantRepository)
	restRepo.On("GetByID", ctx, id).Return(existing, nil)
	restRepo.On("SlugExists", ctx, "new-name", id).Return(false, nil)
	restRepo.On("UpdateSettings", ctx, existing).Return(nil)
	service := NewRestaurantService(restRepo, nil, nil, zerolog.Nop())

	restaurant, err := service.UpdateSettings(ctx, id, &model.RestaurantSettings{Name: "New", Slug: "new-name", Currency: "usd"})

	require.NoError(t, err)
	assert.Equal(t, "new-name", restaurant.Slug)
	assert.Equal(t, "USD", restaurant.Currency)
	assert.Nil(t, restaurant.CustomDomain, "omitting the domain clears it")
}

func TestRestaurantService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name      string
		found     bool
		fnErr     error
		checkErr  func(t *testing.T, err error)
		expectsFn bool
	}{
		{
			name:      "Deleted",
			found:     true,
			expectsFn: true,
			checkErr:  func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:     "Not found",
			checkErr: func(t *testing.T, err error) { assert.ErrorIs(t, err, model.ErrRestaurantNotFound) },
		},
		{
			name:      "Function failure surfaces its message",
			found:     true,
			expectsFn: true,
			fnErr:     &functions.Error{Function: functions.DeleteRestaurant, StatusCode: 400, Message: "Restaurant has open orders"},
			checkErr: func(t *testing.T, err error) {
				de, ok := model.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, model.ErrCodeFunctionFailed, de.Code)
				assert.Equal(t, "Restaurant has open orders", de.Message)
			},
		},
		{
			name:      "Transport failure",
			found:     true,
			expectsFn: true,
			fnErr:     errors.New("connection refused"),
			checkErr: func(t *testing.T, err error) {
				_, ok := model.AsDomainError(err)
				assert.False(t, ok)
				assert.Contains(t, err.Error(), "failed to call function")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restRepo := new(MockRestaurantRepository)
			fn := new(MockFunctions)
			if tt.found {
				restRepo.On("GetByID", ctx, id).Return(&model.Restaurant{ID: id}, nil)
			} else {
				restRepo.On("GetByID", ctx, id).Return(nil, nil)
			}
			if tt.expectsFn {
				fn.On("DeleteRestaurant", ctx, "token", id).Return(tt.fnErr)
			}
			service := NewRestaurantService(restRepo, nil, fn, zerolog.Nop())

			tt.checkErr(t, service.Delete(ctx, "token", id))
			fn.AssertExpectations(t)
		})
	}
}

func TestRestaurantService_TransferOwnership(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Transferred", func(t *testing.T) {
		restRepo := new(MockRestaurantRepository)
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		restRepo.On("GetByID", ctx, id).Return(&model.Restaurant{ID: id}, nil)
		userRepo.On("GetByEmail", ctx, "new@example.com").Return(&model.User{ID: uuid.New(), Email: "new@example.com"}, nil)
		fn.On("TransferOwnership", ctx, "token", id, "new@example.com").Return(nil)
		service := NewRestaurantService(restRepo, userRepo, fn, zerolog.Nop())

		require.NoError(t, service.TransferOwnership(ctx, "token", id, "new@example.com"))
		fn.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		restRepo := new(MockRestaurantRepository)
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		restRepo.On("GetByID", ctx, id).Return(&model.Restaurant{ID: id}, nil)
		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)
		service := NewRestaurantService(restRepo, userRepo, fn, zerolog.Nop())

		err := service.TransferOwnership(ctx, "token", id, "ghost@example.com")

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeNotFound, de.Code)
		fn.AssertNotCalled(t, "TransferOwnership", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	newID := uuid.New()
	req := &model.CreateUserRequest{Email: " Owner@Example.com ", Password: "secret123", FullName: "Owner", Role: model.RoleRestaurantOwner}
	input := functions.CreateUserInput{Email: "owner@example.com", Password: "secret123", FullName: "Owner", Role: "restaurant_owner"}

	t.Run("Created and read back", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		stored := &model.User{ID: newID, Email: "owner@example.com", Role: model.RoleRestaurantOwner}
		userRepo.On("GetByEmail", ctx, "owner@example.com").Return(nil, nil)
		fn.On("CreateUser", ctx, "token", input).Return(newID, nil)
		userRepo.On("GetByID", ctx, newID).Return(stored, nil)
		service := NewUserService(userRepo, fn, zerolog.Nop())

		user, err := service.Create(ctx, "token", req)

		require.NoError(t, err)
		assert.Same(t, stored, user)
	})

	t.Run("Profile not readable yet", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		userRepo.On("GetByEmail", ctx, "owner@example.com").Return(nil, nil)
		fn.On("CreateUser", ctx, "token", input).Return(newID, nil)
		userRepo.On("GetByID", ctx, newID).Return(nil, nil)
		service := NewUserService(userRepo, fn, zerolog.Nop())

		user, err := service.Create(ctx, "token", req)

		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.Equal(t, model.RoleRestaurantOwner, user.Role)
	})

	t.Run("Email in use", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		userRepo.On("GetByEmail", ctx, "owner@example.com").Return(&model.User{ID: uuid.New()}, nil)
		service := NewUserService(userRepo, fn, zerolog.Nop())

		_, err := service.Create(ctx, "token", req)

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeConflict, de.Code)
		fn.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	callerID, targetID := uuid.New(), uuid.New()

	t.Run("Self delete refused", func(t *testing.T) {
		service := NewUserService(new(MockUserRepository), new(MockFunctions), zerolog.Nop())

		err := service.Delete(ctx, "token", callerID, callerID)

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeValidation, de.Code)
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByID", ctx, targetID).Return(nil, nil)
		service := NewUserService(userRepo, new(MockFunctions), zerolog.Nop())

		assert.ErrorIs(t, service.Delete(ctx, "token", callerID, targetID), model.ErrNotFound)
	})

	t.Run("Deleted", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		fn := new(MockFunctions)
		userRepo.On("GetByID", ctx, targetID).Return(&model.User{ID: targetID}, nil)
		fn.On("DeleteUser", ctx, "token", targetID).Return(nil)
		service := NewUserService(userRepo, fn, zerolog.Nop())

		require.NoError(t, service.Delete(ctx, "token", callerID, targetID))
		fn.AssertExpectations(t)
	})
}
