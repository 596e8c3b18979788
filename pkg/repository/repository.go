package repository

import (
	"context"

	"github.com/memvault/memvault/pkg/model"
)

// Repository is the durable record store: canonical memory records plus the
// append-only history of operations per memory id. History outlives the
// record it belongs to; deleting a memory never touches its events.
type Repository interface {
	// PutMemory creates or overwrites a memory record
	PutMemory(ctx context.Context, memory *model.Memory) error

	// GetMemory retrieves a memory by ID, ErrMemoryNotFound if absent
	GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error)

	// ListMemories retrieves all memories of a user, optionally narrowed by
	// metadata equality filters
	ListMemories(ctx context.Context, userID string, filters map[string]string) ([]*model.Memory, error)

	// DeleteMemory removes a memory record, ErrMemoryNotFound if absent
	DeleteMemory(ctx context.Context, id model.MemoryID) error

	// PutHistory appends a history event
	PutHistory(ctx context.Context, event *model.HistoryEvent) error

	// ListHistory retrieves a memory's events in timestamp order
	ListHistory(ctx context.Context, id model.MemoryID) ([]*model.HistoryEvent, error)

	// Reset removes all records and history for all users
	Reset(ctx context.Context) error

	// Close releases underlying connections
	Close() error
}
