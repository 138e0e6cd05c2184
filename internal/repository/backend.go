package repository

import (
	"context"
	"errors"
	"fmt"

	"order-desk/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var errNoPool = errors.New("postgres backend selected without a database pool")

// NewCatalog returns the catalog repository for cfg.Storage.CatalogBackend.
// pool is required only for the postgres backend.
func NewCatalog(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (ProductRepository, error) {
	switch cfg.Storage.CatalogBackend {
	case config.BackendPostgres:
		if pool == nil {
			return nil, errNoPool
		}
		return NewProductRepository(pool, logger), nil
	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg.S3.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return NewS3ProductRepository(client, cfg.S3.Bucket, cfg.S3.CatalogKey, logger), nil
	case config.BackendFile:
		return NewFileProductRepository(cfg.Storage.ProductsFile, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Storage.CatalogBackend)
	}
}

// NewOrderLog returns the order log for cfg.Storage.OrdersBackend, or nil when
// orders are not persisted.
func NewOrderLog(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (OrderRepository, error) {
	if !cfg.Storage.PersistOrders {
		return nil, nil
	}

	switch cfg.Storage.OrdersBackend {
	case config.BackendPostgres:
		if pool == nil {
			return nil, errNoPool
		}
		return NewOrderRepository(pool, logger), nil
	case config.BackendFile:
		return NewFileOrderRepository(cfg.Storage.OrdersFile, logger), nil
	default:
		return nil, fmt.Errorf("unknown orders backend %q", cfg.Storage.OrdersBackend)
	}
}
