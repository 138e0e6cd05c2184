package repository

import (
	"context"

	"order-desk/internal/model"
)

// ProductRepository defines the interface for catalog storage.
// The catalog is one document: it is always read and written whole.
type ProductRepository interface {
	// GetAll retrieves the full product list in stored order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// ReplaceAll overwrites the stored product list.
	ReplaceAll(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for the append-only order log.
type OrderRepository interface {
	// Append adds an order to the end of the log.
	Append(ctx context.Context, order *model.Order) error

	// List returns every logged order in submission order.
	// An order log that does not exist yet is empty.
	List(ctx context.Context) ([]model.Order, error)
}
