package memory

import (
	"context"

	"github.com/memvault/memvault/pkg/model"
)

// History retrieves the audit trail of one memory in timestamp order. The
// trail remains readable after the memory itself is deleted.
func (u *UseCase) History(ctx context.Context, id model.MemoryID) ([]*model.HistoryEvent, error) {
	return u.repo.ListHistory(ctx, id)
}
