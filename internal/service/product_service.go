package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tablekart/internal/csvio"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/realtime"
	"tablekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	publisher    realtime.Publisher
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// List returns a page of lite products.
func (s *productService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Product], error) {
	if _, ok := q.Filters["archived"]; !ok {
		q = q.WithFilter("archived", false)
	}

	page, err := s.productRepo.List(ctx, restaurantID, q)
	if err != nil {
		return page, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(page.Items)).
		Int("total", page.Total).
		Int("page", page.Page).
		Msg("retrieved products")

	return page, nil
}

// Stats returns the unfiltered product counters.
func (s *productService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.ProductStats, error) {
	stats, err := s.productRepo.Stats(ctx, restaurantID)
	if err != nil {
		return stats, fmt.Errorf("failed to get product stats: %w", err)
	}
	return stats, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create inserts a new product with its variations and ingredients.
func (s *productService) Create(ctx context.Context, restaurantID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		CreatedAt:    time.Now(),
	}
	if err := s.save(ctx, product, req); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("restaurant_id", restaurantID.String()).
		Msg("product created")

	return product, nil
}

// Update replaces a product's fields, variations and ingredients.
func (s *productService) Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	product, err := s.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, product, req); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return product, nil
}

func (s *productService) save(ctx context.Context, product *model.Product, req *model.ProductRequest) error {
	if err := s.validateProductRequest(req); err != nil {
		return err
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, product.RestaurantID, *req.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}
		if category == nil {
			return model.NewDomainError(model.ErrCodeValidation, "Category does not exist")
		}
	}

	product.CategoryID = req.CategoryID
	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.IsAvailable = req.IsAvailable
	product.Position = req.Position

	product.Variations = make([]model.Variation, len(req.Variations))
	for i, v := range req.Variations {
		product.Variations[i] = model.Variation{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      strings.TrimSpace(v.Name),
			Price:     v.Price,
			Position:  i,
		}
	}

	product.Ingredients = make([]model.Ingredient, len(req.Ingredients))
	for i, in := range req.Ingredients {
		ingredient := model.Ingredient{
			ID:         uuid.New(),
			ProductID:  product.ID,
			Name:       strings.TrimSpace(in.Name),
			IsOptional: in.IsOptional,
		}
		if in.IsOptional {
			ingredient.ExtraCost = in.ExtraCost
		}
		product.Ingredients[i] = ingredient
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to save product")
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.notify(ctx, product.RestaurantID, product.ID)
	return nil
}

// validateProductRequest checks the rules the struct tags cannot express.
func (s *productService) validateProductRequest(req *model.ProductRequest) error {
	if req == nil {
		return fmt.Errorf("product request is nil")
	}

	if len(req.Variations) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "A product needs at least one variation")
	}

	for i, v := range req.Variations {
		if v.Price.IsNegative() {
			s.logger.Warn().Int("variation_index", i).Str("price", v.Price.String()).Msg("negative price")
			return model.NewDomainError(model.ErrCodeValidation, "Variation price cannot be negative")
		}
	}

	for _, in := range req.Ingredients {
		if in.ExtraCost.IsNegative() {
			return model.NewDomainError(model.ErrCodeValidation, "Ingredient extra cost cannot be negative")
		}
	}

	return nil
}

// SetAvailable toggles whether the product can be ordered.
func (s *productService) SetAvailable(ctx context.Context, restaurantID, id uuid.UUID, available bool) error {
	if err := s.productRepo.SetAvailable(ctx, restaurantID, id, available); err != nil {
		return fmt.Errorf("failed to update product availability: %w", err)
	}
	s.notify(ctx, restaurantID, id)
	return nil
}

// SetArchived moves a product to or from the archive.
func (s *productService) SetArchived(ctx context.Context, restaurantID, id uuid.UUID, archived bool) error {
	if err := s.productRepo.SetArchived(ctx, restaurantID, id, archived); err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}
	s.notify(ctx, restaurantID, id)
	return nil
}

// Delete removes a product permanently.
func (s *productService) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, restaurantID, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	s.notify(ctx, restaurantID, id)
	return nil
}

var productCSVHeader = []string{"Name", "Category", "Description", "Variations", "Ingredients", "Available", "Position"}

// ExportCSV writes every non-archived product as CSV.
func (s *productService) ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error {
	products, err := s.productRepo.ListAll(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	categories, err := s.categoryRepo.ListByRestaurant(ctx, restaurantID, false)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	rows := make([][]string, len(products))
	for i, p := range products {
		category := ""
		if p.CategoryID != nil {
			category = categoryNames[*p.CategoryID]
		}
		rows[i] = []string{
			p.Name,
			category,
			p.Description,
			formatVariations(p.Variations),
			formatIngredients(p.Ingredients),
			yesNo(p.IsAvailable),
			strconv.Itoa(p.Position),
		}
	}

	if err := csvio.Export(w, delim, productCSVHeader, rows); err != nil {
		return fmt.Errorf("failed to export products: %w", err)
	}

	s.logger.Info().
		Str("restaurant_id", restaurantID.String()).
		Int("count", len(rows)).
		Msg("products exported")

	return nil
}

func (s *productService) notify(ctx context.Context, restaurantID, productID uuid.UUID) {
	event := realtime.NewEvent(realtime.TopicProducts, realtime.ProductChanged, restaurantID, productID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID.String()).Msg("failed to publish product change")
	}
}

func formatVariations(variations []model.Variation) string {
	parts := make([]string, len(variations))
	for i, v := range variations {
		parts[i] = v.Name + " " + v.Price.StringFixed(2)
	}
	return strings.Join(parts, " | ")
}

func formatIngredients(ingredients []model.Ingredient) string {
	parts := make([]string, len(ingredients))
	for i, in := range ingredients {
		if in.IsOptional {
			parts[i] = in.Name + " (+" + in.ExtraCost.StringFixed(2) + ")"
			continue
		}
		parts[i] = in.Name
	}
	return strings.Join(parts, " | ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
