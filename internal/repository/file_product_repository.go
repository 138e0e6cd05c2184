package repository

import (
	"context"
	"fmt"

	"order-desk/internal/model"

	"github.com/rs/zerolog"
)

// fileProductRepository implements ProductRepository on a single JSON file.
type fileProductRepository struct {
	path   string
	logger zerolog.Logger
}

// NewFileProductRepository creates a catalog repository backed by the JSON file at path.
func NewFileProductRepository(path string, logger zerolog.Logger) ProductRepository {
	return &fileProductRepository{
		path:   path,
		logger: logger.With().Str("repository", "product").Str("backend", "file").Logger(),
	}
}

// GetAll reads the catalog file. A missing or corrupt file is an error.
func (r *fileProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := readJSONFile(r.path, &products); err != nil {
		r.logger.Error().Err(err).Str("file", r.path).Msg("failed to read catalog file")
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	return products, nil
}

// ReplaceAll overwrites the catalog file with products.
func (r *fileProductRepository) ReplaceAll(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}

	if err := writeJSONFile(r.path, products); err != nil {
		r.logger.Error().Err(err).Str("file", r.path).Msg("failed to write catalog file")
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	r.logger.Debug().
		Str("file", r.path).
		Int("count", len(products)).
		Msg("catalog replaced")

	return nil
}
