package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"tablekart/internal/csvio"
	"tablekart/internal/listing"
	"tablekart/internal/model"
	"tablekart/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	loader       csvio.Loader
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewCustomerService creates a customer service. loader resolves named
// import sources and may be nil when only uploads are accepted.
func NewCustomerService(customerRepo repository.CustomerRepository, loader csvio.Loader, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		loader:       loader,
		validate:     validator.New(),
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) List(ctx context.Context, restaurantID uuid.UUID, q listing.Query) (listing.Page[model.Customer], error) {
	page, err := s.customerRepo.List(ctx, restaurantID, q)
	if err != nil {
		return page, fmt.Errorf("failed to list customers: %w", err)
	}
	return page, nil
}

func (s *customerService) Stats(ctx context.Context, restaurantID uuid.UUID) (model.CustomerStats, error) {
	stats, err := s.customerRepo.Stats(ctx, restaurantID)
	if err != nil {
		return stats, fmt.Errorf("failed to get customer stats: %w", err)
	}
	return stats, nil
}

func (s *customerService) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrNotFound
	}
	return customer, nil
}

func (s *customerService) Create(ctx context.Context, restaurantID uuid.UUID, req *model.CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		TotalSpent:   decimal.Zero,
		CreatedAt:    time.Now(),
	}
	applyCustomerRequest(customer, req)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().Str("customer_id", customer.ID.String()).Msg("customer created")
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, restaurantID, id uuid.UUID, req *model.CustomerRequest) (*model.Customer, error) {
	customer, err := s.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	applyCustomerRequest(customer, req)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func applyCustomerRequest(c *model.Customer, req *model.CustomerRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Address = strings.TrimSpace(req.Address)
}

func (s *customerService) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, restaurantID, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.logger.Info().Str("customer_id", id.String()).Msg("customer deleted")
	return nil
}

var customerCSVHeader = []string{"Name", "Phone", "Email", "Address", "Orders", "Total Spent", "Last Order", "Customer Since"}

func (s *customerService) ExportCSV(ctx context.Context, restaurantID uuid.UUID, w io.Writer, delim rune) error {
	customers, err := s.customerRepo.ListAll(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	rows := make([][]string, len(customers))
	for i, c := range customers {
		lastOrder := ""
		if c.LastOrderAt != nil {
			lastOrder = c.LastOrderAt.Format(time.DateOnly)
		}
		rows[i] = []string{
			c.Name,
			c.Phone,
			c.Email,
			c.Address,
			strconv.Itoa(c.OrdersCount),
			c.TotalSpent.StringFixed(2),
			lastOrder,
			c.CreatedAt.Format(time.DateOnly),
		}
	}

	if err := csvio.Export(w, delim, customerCSVHeader, rows); err != nil {
		return fmt.Errorf("failed to export customers: %w", err)
	}

	s.logger.Info().
		Str("restaurant_id", restaurantID.String()).
		Int("count", len(rows)).
		Msg("customers exported")

	return nil
}

func (s *customerService) ImportCSV(ctx context.Context, restaurantID uuid.UUID, r io.Reader) (*model.ImportResult, error) {
	doc, err := csvio.ReadAll(r)
	if err != nil {
		return nil, importError(err)
	}
	return s.importDocument(ctx, restaurantID, doc)
}

func (s *customerService) ImportSource(ctx context.Context, restaurantID uuid.UUID, name string) (*model.ImportResult, error) {
	if s.loader == nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Import sources are not configured")
	}

	doc, err := s.loader.Load(ctx, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", name).Msg("failed to load import source")
		return nil, importError(err)
	}
	return s.importDocument(ctx, restaurantID, doc)
}

// Import column aliases, matched case-insensitively.
var (
	nameColumns    = []string{"name", "full name", "customer"}
	phoneColumns   = []string{"phone", "telephone", "mobile"}
	emailColumns   = []string{"email", "e-mail"}
	addressColumns = []string{"address"}
)

func (s *customerService) importDocument(ctx context.Context, restaurantID uuid.UUID, doc *csvio.Document) (*model.ImportResult, error) {
	nameCol := findColumn(doc.Headers, nameColumns)
	phoneCol := findColumn(doc.Headers, phoneColumns)
	if nameCol == "" || phoneCol == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "CSV must have name and phone columns")
	}
	emailCol := findColumn(doc.Headers, emailColumns)
	addressCol := findColumn(doc.Headers, addressColumns)

	result := &model.ImportResult{}
	seen := make(map[string]bool, len(doc.Rows))
	customers := make([]model.Customer, 0, len(doc.Rows))
	now := time.Now()

	for _, row := range doc.Rows {
		name := row.Get(nameCol)
		phone := row.Get(phoneCol)
		if name == "" || phone == "" {
			result.Errors = append(result.Errors, model.ImportError{Line: row.Line, Message: "name and phone are required"})
			continue
		}

		email := ""
		if emailCol != "" {
			email = row.Get(emailCol)
		}
		if email != "" {
			if err := s.validate.Var(email, "email"); err != nil {
				result.Errors = append(result.Errors, model.ImportError{Line: row.Line, Message: "invalid email " + strconv.Quote(email)})
				continue
			}
		}

		if seen[phone] {
			result.Skipped++
			continue
		}
		seen[phone] = true

		customer := model.Customer{
			ID:           uuid.New(),
			RestaurantID: restaurantID,
			Name:         name,
			Phone:        phone,
			Email:        email,
			TotalSpent:   decimal.Zero,
			CreatedAt:    now,
		}
		if addressCol != "" {
			customer.Address = row.Get(addressCol)
		}
		customers = append(customers, customer)
	}

	inserted, err := s.customerRepo.Import(ctx, restaurantID, customers)
	if err != nil {
		return nil, fmt.Errorf("failed to import customers: %w", err)
	}
	result.Imported = inserted
	result.Skipped += len(customers) - inserted

	s.logger.Info().
		Str("restaurant_id", restaurantID.String()).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("customers imported")

	return result, nil
}

func findColumn(headers, aliases []string) string {
	for _, h := range headers {
		for _, alias := range aliases {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h
			}
		}
	}
	return ""
}

// importError turns CSV format problems into validation errors and keeps
// infrastructure errors as they are.
func importError(err error) error {
	switch {
	case errors.Is(err, csvio.ErrEmptyFile),
		errors.Is(err, csvio.ErrMissingHeader),
		errors.Is(err, csvio.ErrInvalidEncoding),
		errors.Is(err, csvio.ErrTooLarge):
		return model.NewDomainError(model.ErrCodeValidation, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return model.NewDomainError(model.ErrCodeNotFound, err.Error())
	}
	return fmt.Errorf("failed to read CSV: %w", err)
}
