// Package metastore provides durable keyed storage for paper metadata.
package metastore

import (
	"context"
	"errors"

	"github.com/matsen/paperscope/internal/paper"
)

// ErrNotFound indicates the paper ID is not present in the store.
var ErrNotFound = errors.New("paper not found")

// Store is durable keyed storage for paper metadata.
//
// WriteBatch replaces existing records, last write wins. Read returns
// ErrNotFound for absent IDs.
type Store interface {
	// WriteBatch writes every paper in one batch.
	WriteBatch(ctx context.Context, papers []paper.Paper) error

	// Read returns the paper with the given ID.
	Read(ctx context.Context, id string) (*paper.Paper, error)

	// Close releases the underlying storage.
	Close() error
}
