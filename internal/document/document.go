// Package document provides byte-level storage for the single JSON document
// that holds the product collection.
package document

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when the document has never been written.
var ErrNotExist = errors.New("document does not exist")

// Source reads and writes one named document.
type Source interface {
	// Read returns the full document content, or ErrNotExist.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the full document content.
	Write(ctx context.Context, data []byte) error

	// Name identifies the document in logs and errors.
	Name() string
}
