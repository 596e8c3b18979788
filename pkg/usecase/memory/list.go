package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
)

// List retrieves all memories of a user, unranked, optionally narrowed by
// metadata equality filters.
func (u *UseCase) List(ctx context.Context, userID string, filters map[string]string) ([]*model.Memory, error) {
	if userID == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "user_id is required")
	}

	return u.repo.ListMemories(ctx, userID, filters)
}
