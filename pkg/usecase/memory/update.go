package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// Update overwrites a memory's content, recomputes its embedding, and
// appends an UPDATE history event.
func (u *UseCase) Update(ctx context.Context, id model.MemoryID, newContent string) (*model.Memory, error) {
	if newContent == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "content is required")
	}

	embedding, err := u.embed(ctx, newContent)
	if err != nil {
		return nil, err
	}

	release := u.locks.acquire(id)
	defer release()
	ctx = context.WithoutCancel(ctx)

	prev, err := u.repo.GetMemory(ctx, id)
	if err != nil {
		return nil, err
	}

	next := prev.Clone()
	next.Content = newContent
	next.Embedding = embedding
	next.UpdatedAt = time.Now()

	event := newEvent(id, model.EventTypeUpdate, &prev.Content, &next.Content)
	if err := u.commitPut(ctx, prev, next, event); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("memory updated", "memory_id", id, "user_id", next.UserID)

	return next, nil
}
