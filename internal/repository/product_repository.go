package repository

import (
	"context"
	"fmt"

	"order-desk/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Str("backend", "postgres").Logger(),
	}
}

// GetAll retrieves all products in catalog order.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, title, price, image, discount_percentage
		FROM products
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.DiscountPercentage)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ReplaceAll swaps the product table contents inside one transaction.
func (r *productRepository) ReplaceAll(ctx context.Context, products []model.Product) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM products`); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear products")
		return fmt.Errorf("failed to clear products: %w", err)
	}

	if len(products) > 0 {
		query := `
			INSERT INTO products (id, title, price, image, discount_percentage, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		batch := &pgx.Batch{}
		for i, p := range products {
			batch.Queue(query, p.ID, p.Title, p.Price, p.Image, p.DiscountPercentage, i)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range products {
			if _, err = results.Exec(); err != nil {
				results.Close()
				r.logger.Error().
					Err(err).
					Int("product_id", products[i].ID).
					Msg("failed to insert product")
				return fmt.Errorf("failed to insert product %d: %w", products[i].ID, err)
			}
		}
		if err = results.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	r.logger.Debug().Int("count", len(products)).Msg("catalog replaced")

	return nil
}
