package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"order-desk/internal/model"

	"github.com/rs/zerolog"
)

// fileOrderRepository implements OrderRepository on a JSON array file.
// Appends are read-modify-write; mu serialises them within this process only.
type fileOrderRepository struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileOrderRepository creates an order log backed by the JSON file at path.
func NewFileOrderRepository(path string, logger zerolog.Logger) OrderRepository {
	return &fileOrderRepository{
		path:   path,
		logger: logger.With().Str("repository", "order").Str("backend", "file").Logger(),
	}
}

// Append adds order to the end of the log file, creating it if needed.
func (r *fileOrderRepository) Append(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}

	orders = append(orders, *order)

	if err := writeJSONFile(r.path, orders); err != nil {
		r.logger.Error().
			Err(err).
			Str("file", r.path).
			Str("order_id", order.ID.String()).
			Msg("failed to append order")
		return fmt.Errorf("failed to append order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("log_size", len(orders)).
		Msg("order appended")

	return nil
}

// List returns every order in the log file.
func (r *fileOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *fileOrderRepository) load() ([]model.Order, error) {
	var orders []model.Order
	if err := readJSONFile(r.path, &orders); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Order{}, nil
		}
		r.logger.Error().Err(err).Str("file", r.path).Msg("failed to read order log")
		return nil, fmt.Errorf("failed to read order log: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}
