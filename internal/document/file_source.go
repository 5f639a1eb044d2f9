package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileSource implements Source on the local file system.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a file-backed document source at path.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "file-source").Str("file", path).Logger(),
	}
}

func (s *fileSource) Name() string {
	return s.path
}

// Read returns the file content. A missing file yields ErrNotExist.
func (s *fileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Msg("document file not found")
			return nil, ErrNotExist
		}
		s.logger.Error().Err(err).Msg("failed to read document file")
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return data, nil
}

// Write replaces the file atomically: the content goes to a temporary file in
// the same directory which is then renamed over the target.
func (s *fileSource) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", dir).Msg("failed to create document directory")
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create temporary file")
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		s.logger.Error().Err(err).Msg("failed to write temporary file")
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		s.logger.Error().Err(err).Msg("failed to replace document file")
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.logger.Debug().Int("bytes", len(data)).Msg("document file written")

	return nil
}
