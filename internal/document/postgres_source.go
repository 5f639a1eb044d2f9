package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the subset of *pgxpool.Pool used by the PostgreSQL source.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// postgresSource implements Source as one row of the documents table.
type postgresSource struct {
	db     Querier
	name   string
	logger zerolog.Logger
}

// NewPostgresSource creates a document source stored in PostgreSQL under name.
// The documents table must exist (see database.EnsureSchema).
func NewPostgresSource(db Querier, name string, logger zerolog.Logger) Source {
	return &postgresSource{
		db:     db,
		name:   name,
		logger: logger.With().Str("component", "postgres-source").Str("document", name).Logger(),
	}
}

func (s *postgresSource) Name() string {
	return "postgres:documents/" + s.name
}

// Read returns the stored body. A missing row yields ErrNotExist.
func (s *postgresSource) Read(ctx context.Context) ([]byte, error) {
	query := `
		SELECT body
		FROM documents
		WHERE name = $1
	`

	var body string
	err := s.db.QueryRow(ctx, query, s.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().Msg("document row not found")
			return nil, ErrNotExist
		}
		s.logger.Error().Err(err).Msg("failed to query document")
		return nil, fmt.Errorf("failed to query document %s: %w", s.name, err)
	}

	return []byte(body), nil
}

// Write upserts the document body.
func (s *postgresSource) Write(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.Exec(ctx, query, s.name, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to upsert document")
		return fmt.Errorf("failed to upsert document %s: %w", s.name, err)
	}

	s.logger.Debug().Int("bytes", len(data)).Msg("document row written")

	return nil
}
