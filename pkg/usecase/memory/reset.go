package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// Reset clears the vector index and the durable store for all users,
// history included. Irreversible; intended for test and administrative use.
func (u *UseCase) Reset(ctx context.Context) error {
	if err := u.repo.Reset(ctx); err != nil {
		return goerr.Wrap(err, "failed to reset durable store")
	}
	if err := u.idx.Reset(ctx); err != nil {
		return goerr.Wrap(err, "failed to reset vector index")
	}

	logging.From(ctx).Warn("all memories reset")

	return nil
}
