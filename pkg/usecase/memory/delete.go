package memory

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// Delete removes one memory from both stores and appends the terminal
// DELETE history event. Deleting an already deleted id fails with not found;
// the id is never reused.
func (u *UseCase) Delete(ctx context.Context, id model.MemoryID) error {
	release := u.locks.acquire(id)
	defer release()
	ctx = context.WithoutCancel(ctx)

	prev, err := u.repo.GetMemory(ctx, id)
	if err != nil {
		return err
	}

	event := newEvent(id, model.EventTypeDelete, &prev.Content, nil)
	if err := u.commitDelete(ctx, prev, event); err != nil {
		return err
	}

	logging.From(ctx).Info("memory deleted", "memory_id", id, "user_id", prev.UserID)

	return nil
}

// DeleteAll removes every memory of a user and returns the count. Each
// single deletion is atomic across the two stores, but the batch as a whole
// is not: a failure leaves earlier deletions in place.
func (u *UseCase) DeleteAll(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, goerr.Wrap(model.ErrInvalidRequest, "user_id is required")
	}

	memories, err := u.repo.ListMemories(ctx, userID, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list memories", goerr.Value("userID", userID))
	}

	deleted := 0
	for _, m := range memories {
		if err := u.Delete(ctx, m.ID); err != nil {
			// A concurrent delete may win the race for an individual id.
			if errors.Is(err, model.ErrMemoryNotFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}
