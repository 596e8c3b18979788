package memory

import (
	"sync"

	"github.com/memvault/memvault/pkg/model"
)

// lockTable serializes mutations per memory id. Entries are created on
// demand and removed once uncontended, so the table stays proportional to
// the number of ids currently being mutated.
type lockTable struct {
	mu      sync.Mutex
	entries map[model.MemoryID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{
		entries: make(map[model.MemoryID]*lockEntry),
	}
}

// acquire blocks until the exclusive lock for id is held and returns the
// release function.
func (t *lockTable) acquire(id model.MemoryID) func() {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok {
		e = &lockEntry{}
		t.entries[id] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		t.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(t.entries, id)
		}
		t.mu.Unlock()
	}
}
