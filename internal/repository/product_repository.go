package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/document"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository as one JSON array document.
type productRepository struct {
	source document.Source
	logger zerolog.Logger
}

// NewProductRepository creates a product repository backed by source.
func NewProductRepository(source document.Source, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		source: source,
		logger: logger.With().Str("repository", "product").Str("document", source.Name()).Logger(),
	}
}

// Load reads and decodes the product document.
func (r *productRepository) Load(ctx context.Context) ([]model.Product, error) {
	data, err := r.source.Read(ctx)
	if err != nil {
		if errors.Is(err, document.ErrNotExist) {
			r.logger.Debug().Msg("product document not found, starting empty")
			return []model.Product{}, nil
		}
		r.logger.Error().Err(err).Msg("failed to read product document")
		return nil, &model.IOError{Op: "read", Source: r.source.Name(), Err: err}
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		r.logger.Error().Err(err).Int("bytes", len(data)).Msg("product document is not valid JSON")
		return nil, &model.ParseError{Source: r.source.Name(), Err: err}
	}

	if products == nil {
		products = []model.Product{}
	}

	r.logger.Debug().Int("count", len(products)).Msg("loaded products")

	return products, nil
}

// Save encodes products as an indented JSON array and replaces the document.
func (r *productRepository) Save(ctx context.Context, products []model.Product) error {
	data, err := encodeProducts(products)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to encode products")
		return &model.IOError{Op: "encode", Source: r.source.Name(), Err: err}
	}

	if err := r.source.Write(ctx, data); err != nil {
		r.logger.Error().Err(err).Int("count", len(products)).Msg("failed to write product document")
		return &model.IOError{Op: "write", Source: r.source.Name(), Err: err}
	}

	r.logger.Debug().Int("count", len(products)).Msg("saved products")

	return nil
}

// encodeProducts renders products with two-space indentation. An empty or nil
// collection encodes as [].
func encodeProducts(products []model.Product) ([]byte, error) {
	if products == nil {
		products = []model.Product{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
