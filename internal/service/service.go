package service

import (
	"context"

	"order-desk/internal/model"
)

// ProductService defines operations for catalog management.
type ProductService interface {
	// GetProducts returns the whole catalog.
	GetProducts(ctx context.Context) ([]model.Product, error)

	// ReplaceProducts validates every entry and overwrites the catalog.
	ReplaceProducts(ctx context.Context, products []model.ProductInput) error
}

// OrderService defines operations for order intake.
type OrderService interface {
	// SubmitOrder validates, logs and announces a new order.
	SubmitOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// TodayOrders returns the orders submitted on the current calendar day.
	TodayOrders(ctx context.Context) ([]model.Order, error)

	// OrderHistory returns the full order log.
	OrderHistory(ctx context.Context) ([]model.Order, error)
}
