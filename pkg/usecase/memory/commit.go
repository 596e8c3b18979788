package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// The two stores are not covered by one transaction. The engine writes the
// durable store first, then the vector index, then appends history; any
// later failure unwinds the earlier writes. A failed unwind leaves the
// stores inconsistent and is surfaced as ErrPartialFailure with the full
// before/after state logged for out-of-band reconciliation.

// commitPut applies a create or update of one memory across both stores and
// appends its history event. prev is nil for a create. Caller must hold the
// per-id lock.
func (u *UseCase) commitPut(ctx context.Context, prev, next *model.Memory, event *model.HistoryEvent) error {
	if err := u.repo.PutMemory(ctx, next); err != nil {
		return goerr.Wrap(err, "failed to write durable store", goerr.Value("id", next.ID))
	}

	if err := u.idx.Upsert(ctx, next); err != nil {
		return u.rollbackPut(ctx, prev, next, err)
	}

	if err := u.repo.PutHistory(ctx, event); err != nil {
		if prev != nil {
			if idxErr := u.idx.Upsert(ctx, prev); idxErr != nil {
				return u.partialFailure(ctx, prev, next, err, idxErr)
			}
		} else {
			if idxErr := u.idx.Delete(ctx, next.UserID, next.ID); idxErr != nil {
				return u.partialFailure(ctx, prev, next, err, idxErr)
			}
		}
		return u.rollbackPut(ctx, prev, next, err)
	}

	return nil
}

// rollbackPut reverts the durable store to its prior state after a failed
// index or history write.
func (u *UseCase) rollbackPut(ctx context.Context, prev, next *model.Memory, cause error) error {
	var rollbackErr error
	if prev != nil {
		rollbackErr = u.repo.PutMemory(ctx, prev)
	} else {
		rollbackErr = u.repo.DeleteMemory(ctx, next.ID)
	}
	if rollbackErr != nil {
		return u.partialFailure(ctx, prev, next, cause, rollbackErr)
	}

	return goerr.Wrap(cause, "mutation rolled back", goerr.Value("id", next.ID))
}

// commitDelete removes one memory from both stores and appends the terminal
// DELETE event. Caller must hold the per-id lock.
func (u *UseCase) commitDelete(ctx context.Context, prev *model.Memory, event *model.HistoryEvent) error {
	if err := u.repo.DeleteMemory(ctx, prev.ID); err != nil {
		return goerr.Wrap(err, "failed to delete from durable store", goerr.Value("id", prev.ID))
	}

	if err := u.idx.Delete(ctx, prev.UserID, prev.ID); err != nil {
		if rollbackErr := u.repo.PutMemory(ctx, prev); rollbackErr != nil {
			return u.partialFailure(ctx, prev, nil, err, rollbackErr)
		}
		return goerr.Wrap(err, "deletion rolled back", goerr.Value("id", prev.ID))
	}

	if err := u.repo.PutHistory(ctx, event); err != nil {
		if idxErr := u.idx.Upsert(ctx, prev); idxErr != nil {
			return u.partialFailure(ctx, prev, nil, err, idxErr)
		}
		if rollbackErr := u.repo.PutMemory(ctx, prev); rollbackErr != nil {
			return u.partialFailure(ctx, prev, nil, err, rollbackErr)
		}
		return goerr.Wrap(err, "deletion rolled back", goerr.Value("id", prev.ID))
	}

	return nil
}

// partialFailure records an inconsistency between the stores that could not
// be unwound. Never swallowed: logged with full before/after state and
// returned with a distinguishable kind.
func (u *UseCase) partialFailure(ctx context.Context, prev, next *model.Memory, cause, rollbackErr error) error {
	var id model.MemoryID
	if next != nil {
		id = next.ID
	} else if prev != nil {
		id = prev.ID
	}

	logging.From(ctx).Error("cross-store state diverged and rollback failed, reconciliation required",
		"memory_id", id,
		"before", prev,
		"after", next,
		"cause", cause,
		"rollback_error", rollbackErr,
	)

	return goerr.Wrap(model.ErrPartialFailure, "rollback failed",
		goerr.Value("id", id),
		goerr.Value("cause", cause.Error()),
		goerr.Value("rollbackError", rollbackErr.Error()),
	)
}
