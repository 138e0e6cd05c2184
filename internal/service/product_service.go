package service

import (
	"context"
	"fmt"
	"strings"

	"order-desk/internal/model"
	"order-desk/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		validate:    newValidator(),
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetProducts returns the whole catalog.
func (s *productService) GetProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, model.StorageUnavailable(err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// ReplaceProducts validates every entry and overwrites the catalog.
// An empty list clears the catalog; a nil list is rejected.
func (s *productService) ReplaceProducts(ctx context.Context, inputs []model.ProductInput) error {
	if inputs == nil {
		return model.InvalidProducts("product list is required")
	}

	var problems []string
	seen := make(map[int]int, len(inputs))
	products := make([]model.Product, 0, len(inputs))

	for i, in := range inputs {
		prefix := fmt.Sprintf("products[%d]", i)
		if err := s.validate.Struct(in); err != nil {
			problems = append(problems, violations(err, prefix)...)
			continue
		}

		p := in.Product()
		if first, dup := seen[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s.id %d duplicates products[%d].id", prefix, p.ID, first))
			continue
		}
		seen[p.ID] = i
		products = append(products, p)
	}

	if len(problems) > 0 {
		s.logger.Warn().
			Int("count", len(inputs)).
			Strs("violations", problems).
			Msg("rejected catalog update")
		return model.InvalidProducts(strings.Join(problems, "; "))
	}

	if err := s.productRepo.ReplaceAll(ctx, products); err != nil {
		s.logger.Error().Err(err).Int("count", len(products)).Msg("failed to replace products")
		return model.StorageUnavailable(err)
	}

	s.logger.Info().Int("count", len(products)).Msg("catalog replaced")

	return nil
}
