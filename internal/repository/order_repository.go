package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"order-desk/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Str("backend", "postgres").Logger(),
	}
}

// Append inserts a new order row. The cart is stored as jsonb.
func (r *orderRepository) Append(ctx context.Context, order *model.Order) error {
	cart, err := json.Marshal(order.Cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	query := `
		INSERT INTO orders (id, name, phone, address, comment, cart, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		order.ID,
		order.Name,
		order.Phone,
		order.Address,
		order.Comment,
		cart,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// List returns every order ordered by submission time.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT id, name, phone, address, comment, cart, created_at
		FROM orders
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var (
			o    model.Order
			cart []byte
		)
		err := rows.Scan(&o.ID, &o.Name, &o.Phone, &o.Address, &o.Comment, &cart, &o.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(cart, &o.Cart); err != nil {
			r.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to decode cart")
			return nil, fmt.Errorf("failed to decode cart of order %s: %w", o.ID, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
