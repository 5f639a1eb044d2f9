package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/document"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// openStore builds the product repository on the backend selected by
// STORAGE_BACKEND. The returned func releases backend resources.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	source, closeFn, err := openSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Str("source", source.Name()).Msg("product store ready")

	return repository.NewProductRepository(source, logger), closeFn, nil
}

func openSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (document.Source, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendS3:
		source, err := document.NewS3Source(ctx, cfg.S3, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return source, noop, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return document.NewPostgresSource(pool, cfg.Database.DocumentName, logger), pool.Close, nil

	default:
		return document.NewFileSource(cfg.Storage.FilePath, logger), noop, nil
	}
}
