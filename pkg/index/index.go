package index

import (
	"context"

	"github.com/memvault/memvault/pkg/model"
)

// Entry is one ranked hit from a similarity query.
type Entry struct {
	ID    model.MemoryID
	Score float64
}

// Index is the vector index: (id, vector, metadata) tuples with
// nearest-neighbor search scoped per user. The engine is the only writer and
// keeps the index consistent with the durable record store.
type Index interface {
	// Upsert inserts or replaces the vector entry of a memory
	Upsert(ctx context.Context, memory *model.Memory) error

	// Query returns up to topK entries of the user's partition ranked by
	// descending similarity, optionally narrowed by metadata filters
	Query(ctx context.Context, userID string, embedding []float32, topK int, filters map[string]string) ([]*Entry, error)

	// Delete removes a memory's entry from the user's partition
	Delete(ctx context.Context, userID string, id model.MemoryID) error

	// Reset drops all partitions of all users
	Reset(ctx context.Context) error

	// Close releases resources
	Close() error
}
