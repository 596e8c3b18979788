package memory

import (
	"context"

	"github.com/memvault/memvault/pkg/model"
)

// Get retrieves one memory by id.
func (u *UseCase) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	return u.repo.GetMemory(ctx, id)
}
