package service

import (
	"context"
	"fmt"

	"tablekart/internal/cart"
	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type cartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a cart service over a session store.
func NewCartService(store cart.Store, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// cartSessionKey scopes a browser session to one restaurant so the same
// visitor keeps separate carts per menu.
func cartSessionKey(restaurantID uuid.UUID, sessionID string) string {
	return restaurantID.String() + ":" + sessionID
}

func (s *cartService) Get(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	c, err := s.store.Load(ctx, cartSessionKey(restaurantID, sessionID))
	if err != nil {
		return cart.View{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return c.View(), nil
}

func (s *cartService) Add(ctx context.Context, restaurantID uuid.UUID, sessionID string, req *model.CartAddRequest) (cart.View, error) {
	product, err := s.productRepo.GetByID(ctx, restaurantID, req.ProductID)
	if err != nil {
		return cart.View{}, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || product.IsArchived {
		return cart.View{}, model.ErrProductNotFound
	}
	if !product.IsAvailable {
		return cart.View{}, model.ErrProductUnavailable
	}

	variation, ok := product.Variation(req.VariationID)
	if !ok {
		return cart.View{}, model.ErrVariationNotFound
	}

	var selected []model.Ingredient
	if req.IngredientIDs != nil {
		selected = make([]model.Ingredient, 0, len(req.IngredientIDs))
		for _, id := range req.IngredientIDs {
			ingredient, ok := product.Ingredient(id)
			if !ok {
				return cart.View{}, model.ErrIngredientNotFound
			}
			selected = append(selected, ingredient)
		}
	}

	c, err := s.store.Update(ctx, cartSessionKey(restaurantID, sessionID), func(c *cart.Cart) error {
		c.AddItem(*product, variation, req.Quantity, selected, req.Notes)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to add to cart")
		return cart.View{}, fmt.Errorf("failed to update cart: %w", err)
	}

	s.logger.Debug().
		Str("restaurant_id", restaurantID.String()).
		Str("product_id", product.ID.String()).
		Int("items", c.ItemCount()).
		Msg("item added to cart")

	return c.View(), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, restaurantID uuid.UUID, sessionID, key string, quantity int) (cart.View, error) {
	lineKey, err := parseLineKey(key)
	if err != nil {
		return cart.View{}, err
	}
	return s.update(ctx, restaurantID, sessionID, func(c *cart.Cart) {
		c.UpdateQuantity(lineKey, quantity)
	})
}

func (s *cartService) Remove(ctx context.Context, restaurantID uuid.UUID, sessionID, key string) (cart.View, error) {
	lineKey, err := parseLineKey(key)
	if err != nil {
		return cart.View{}, err
	}
	return s.update(ctx, restaurantID, sessionID, func(c *cart.Cart) {
		c.RemoveItem(lineKey)
	})
}

func (s *cartService) Clear(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	return s.update(ctx, restaurantID, sessionID, (*cart.Cart).Clear)
}

func (s *cartService) ClearLastAdded(ctx context.Context, restaurantID uuid.UUID, sessionID string) (cart.View, error) {
	return s.update(ctx, restaurantID, sessionID, (*cart.Cart).ClearLastAdded)
}

func (s *cartService) update(ctx context.Context, restaurantID uuid.UUID, sessionID string, fn func(*cart.Cart)) (cart.View, error) {
	c, err := s.store.Update(ctx, cartSessionKey(restaurantID, sessionID), func(c *cart.Cart) error {
		fn(c)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("restaurant_id", restaurantID.String()).Msg("failed to update cart")
		return cart.View{}, fmt.Errorf("failed to update cart: %w", err)
	}
	return c.View(), nil
}

func parseLineKey(key string) (cart.Key, error) {
	lineKey, err := cart.ParseKey(key)
	if err != nil {
		return cart.Key{}, model.NewDomainError(model.ErrCodeValidation, "Invalid cart line key")
	}
	return lineKey, nil
}
