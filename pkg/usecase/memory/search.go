package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
)

// Search returns up to topK memories of the user ranked by descending
// similarity to the query text, ties broken by most recent update. Results
// reflect all writes committed before the call started.
func (u *UseCase) Search(ctx context.Context, userID, query string, topK int, filters map[string]string) ([]*model.SearchResult, error) {
	if userID == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "user_id is required")
	}
	if query == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "query is required")
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	embedding, err := u.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	entries, err := u.idx.Query(ctx, userID, embedding, topK, filters)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector index", goerr.Value("userID", userID))
	}

	results := make([]*model.SearchResult, 0, len(entries))
	for _, entry := range entries {
		// The canonical record is read back from the durable store so the
		// caller sees committed content, not the indexed copy.
		m, err := u.repo.GetMemory(ctx, entry.ID)
		if err != nil {
			if errors.Is(err, model.ErrMemoryNotFound) {
				continue
			}
			return nil, goerr.Wrap(err, "failed to read search hit", goerr.Value("id", entry.ID))
		}
		results = append(results, &model.SearchResult{Memory: m, Score: entry.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Memory.UpdatedAt.After(results[j].Memory.UpdatedAt)
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}
