package model

import (
	"time"

	"github.com/google/uuid"
)

type HistoryEventID string

// NewHistoryEventID generates a new unique HistoryEventID
func NewHistoryEventID() HistoryEventID {
	return HistoryEventID(uuid.New().String())
}

type EventType string

const (
	EventTypeAdd    EventType = "ADD"
	EventTypeUpdate EventType = "UPDATE"
	EventTypeDelete EventType = "DELETE"
)

// HistoryEvent is one entry of the append-only audit trail of a memory.
// Events are never updated or deleted; deleting the parent memory appends a
// terminal DELETE event and leaves the prior trail intact. Replaying a
// memory's events in CreatedAt order reproduces its content at every point.
type HistoryEvent struct {
	ID       HistoryEventID `json:"id"`
	MemoryID MemoryID       `json:"memory_id"`
	Event    EventType      `json:"event"`

	PreviousContent *string `json:"previous_content"`
	NewContent      *string `json:"new_content"`

	CreatedAt time.Time `json:"created_at"`
}
