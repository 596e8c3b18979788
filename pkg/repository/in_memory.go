package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
)

// InMemory implements Repository with process-local maps. It backs tests and
// credential-free local runs; the data does not survive a restart.
type InMemory struct {
	mu       sync.RWMutex
	memories map[model.MemoryID]*model.Memory
	history  map[model.MemoryID][]*model.HistoryEvent
}

// NewInMemory creates an empty in-process repository
func NewInMemory() *InMemory {
	return &InMemory{
		memories: make(map[model.MemoryID]*model.Memory),
		history:  make(map[model.MemoryID][]*model.HistoryEvent),
	}
}

func (r *InMemory) PutMemory(ctx context.Context, memory *model.Memory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.memories[memory.ID] = memory.Clone()
	return nil
}

func (r *InMemory) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memories[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrMemoryNotFound, "no such memory", goerr.Value("id", id))
	}
	return m.Clone(), nil
}

func (r *InMemory) ListMemories(ctx context.Context, userID string, filters map[string]string) ([]*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var memories []*model.Memory
	for _, m := range r.memories {
		if m.UserID != userID || !m.MatchMetadata(filters) {
			continue
		}
		memories = append(memories, m.Clone())
	}

	sort.Slice(memories, func(i, j int) bool {
		return memories[i].CreatedAt.Before(memories[j].CreatedAt)
	})

	return memories, nil
}

func (r *InMemory) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memories[id]; !ok {
		return goerr.Wrap(model.ErrMemoryNotFound, "no such memory", goerr.Value("id", id))
	}
	delete(r.memories, id)
	return nil
}

func (r *InMemory) PutHistory(ctx context.Context, event *model.HistoryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *event
	r.history[event.MemoryID] = append(r.history[event.MemoryID], &e)
	return nil
}

func (r *InMemory) ListHistory(ctx context.Context, id model.MemoryID) ([]*model.HistoryEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*model.HistoryEvent, 0, len(r.history[id]))
	for _, e := range r.history[id] {
		copied := *e
		events = append(events, &copied)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	return events, nil
}

func (r *InMemory) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.memories = make(map[model.MemoryID]*model.Memory)
	r.history = make(map[model.MemoryID][]*model.HistoryEvent)
	return nil
}

func (r *InMemory) Close() error {
	return nil
}
