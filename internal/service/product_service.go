package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// productInput is a ProductForm that passed validation.
type productInput struct {
	name        string
	description string
	price       float64
}

// parseForm trims the raw fields and converts them into typed values.
func parseForm(form model.ProductForm) (productInput, error) {
	form = model.ProductForm{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       strings.TrimSpace(form.Price),
	}

	if err := validate.Struct(form); err != nil {
		return productInput{}, model.ErrMissingFields
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return productInput{}, model.ErrInvalidPrice
	}

	return productInput{
		name:        form.Name,
		description: form.Description,
		price:       price,
	}, nil
}

// NextID returns one more than the largest ID in products, or 1 when empty.
func NextID(products []model.Product) int64 {
	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// AddProduct builds a product from form and returns a new collection with it
// appended, together with the created product. products is not modified and
// nothing is persisted.
func AddProduct(products []model.Product, form model.ProductForm, now time.Time) ([]model.Product, model.Product, error) {
	input, err := parseForm(form)
	if err != nil {
		return nil, model.Product{}, err
	}

	created := model.Product{
		ID:          NextID(products),
		Name:        input.name,
		Description: input.description,
		Price:       input.price,
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
	}

	updated := make([]model.Product, len(products), len(products)+1)
	copy(updated, products)
	updated = append(updated, created)

	return updated, created, nil
}

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time

	// mu serialises the load-modify-save cycle of Create.
	mu sync.Mutex
}

// NewProductService creates a new product service. m may be nil.
func NewProductService(productRepo repository.ProductRepository, m *metrics.Metrics, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		metrics:     m,
		logger:      logger.With().Str("service", "product").Logger(),
		now:         time.Now,
	}
}

// List returns every product in insertion order.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// Create validates form, appends a new product and persists the collection.
func (s *productService) Create(ctx context.Context, form model.ProductForm) (*model.Product, error) {
	// Reject bad input before touching storage.
	if _, err := parseForm(form); err != nil {
		s.logger.Debug().Err(err).Msg("product form rejected")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.productRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products for create")
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	updated, created, err := AddProduct(products, form, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, updated); err != nil {
		s.logger.Error().Err(err).Int64("product_id", created.ID).Msg("failed to save products")
		return nil, fmt.Errorf("failed to save products: %w", err)
	}

	s.metrics.ProductCreated()

	s.logger.Info().
		Int64("product_id", created.ID).
		Str("name", created.Name).
		Float64("price", created.Price).
		Msg("product created")

	return &created, nil
}
