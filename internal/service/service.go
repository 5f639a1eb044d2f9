package service

import (
	"context"

	"storefront/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// List returns every product in insertion order.
	List(ctx context.Context) ([]model.Product, error)

	// Create validates form, appends a new product and persists the collection.
	Create(ctx context.Context, form model.ProductForm) (*model.Product, error)
}
