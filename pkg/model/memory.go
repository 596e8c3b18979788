package model

import (
	"time"

	"github.com/google/uuid"
)

type MemoryID string

// NewMemoryID generates a new unique MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Memory is the canonical unit of stored knowledge. ID and UserID are fixed
// at creation; Content and Metadata are mutable. Embedding always corresponds
// to the current Content.
type Memory struct {
	ID        MemoryID          `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"-"`
	UserID    string            `json:"user_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (m *Memory) Clone() *Memory {
	if m == nil {
		return nil
	}
	c := *m
	if m.Embedding != nil {
		c.Embedding = make([]float32, len(m.Embedding))
		copy(c.Embedding, m.Embedding)
	}
	if m.Metadata != nil {
		c.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// MatchMetadata reports whether every filter key/value pair is present in the
// memory's metadata. An empty filter matches everything.
func (m *Memory) MatchMetadata(filters map[string]string) bool {
	for k, v := range filters {
		if m.Metadata[k] != v {
			return false
		}
	}
	return true
}
