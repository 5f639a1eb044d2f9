package service

import (
	"context"
	"fmt"
	"strconv"

	"storefront/internal/model"
)

var sampleCatalogue = []struct {
	name        string
	description string
	basePrice   float64
}{
	{"Laptop", "15-inch laptop with 16GB RAM", 899.99},
	{"Wireless Mouse", "Ergonomic mouse with USB receiver", 24.50},
	{"Mechanical Keyboard", "Keyboard with brown switches", 79.00},
	{"Monitor", "27-inch IPS display", 249.90},
	{"Headphones", "Over-ear noise cancelling headphones", 129.00},
}

// SampleForms returns count product forms cycling through a small sample
// catalogue. Repeated items get a numeric suffix.
func SampleForms(count int) []model.ProductForm {
	forms := make([]model.ProductForm, 0, count)
	for i := 0; i < count; i++ {
		item := sampleCatalogue[i%len(sampleCatalogue)]
		name := item.name
		if round := i / len(sampleCatalogue); round > 0 {
			name = fmt.Sprintf("%s %d", item.name, round+1)
		}
		forms = append(forms, model.ProductForm{
			Name:        name,
			Description: item.description,
			Price:       strconv.FormatFloat(item.basePrice, 'f', 2, 64),
		})
	}
	return forms
}

// Seed adds count sample products through svc and returns them.
func Seed(ctx context.Context, svc ProductService, count int) ([]model.Product, error) {
	if count < 1 {
		return nil, fmt.Errorf("seed count must be at least 1, got %d", count)
	}

	created := make([]model.Product, 0, count)
	for _, form := range SampleForms(count) {
		p, err := svc.Create(ctx, form)
		if err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", form.Name, err)
		}
		created = append(created, *p)
	}

	return created, nil
}
