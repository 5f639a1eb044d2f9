package repository

import (
	"context"

	"storefront/internal/model"
)

// ProductRepository defines the interface for product collection persistence.
type ProductRepository interface {
	// Load reads the full product collection in insertion order.
	// A collection that was never saved loads as empty.
	Load(ctx context.Context) ([]model.Product, error)

	// Save replaces the persisted collection with products.
	Save(ctx context.Context, products []model.Product) error
}
