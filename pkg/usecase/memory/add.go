package memory

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// AddInput is one raw submission to remember.
type AddInput struct {
	UserID   string
	RawInput string
	Metadata map[string]string
}

// AddedMemory is one affected memory with its created/updated indicator.
type AddedMemory struct {
	Memory *model.Memory   `json:"memory"`
	Event  model.EventType `json:"event"`
}

// SkippedCandidate reports an extracted statement that could not be
// embedded. The rest of the add proceeds without it.
type SkippedCandidate struct {
	Statement string `json:"statement"`
	Reason    string `json:"reason"`
}

type AddOutput struct {
	Memories []*AddedMemory      `json:"memories"`
	Skipped  []*SkippedCandidate `json:"skipped,omitempty"`
}

// Add turns raw input into deduplicated memory records: extract candidate
// statements, embed each, and either merge into the most similar existing
// memory or create a new one. Extraction failure rejects the whole input;
// embedding failure skips only that candidate.
func (u *UseCase) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	logger := logging.From(ctx)

	if input.UserID == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "user_id is required")
	}
	if input.RawInput == "" {
		return nil, goerr.Wrap(model.ErrInvalidRequest, "raw_input is required")
	}

	candidates, err := u.extractor.Extract(ctx, input.RawInput)
	if err != nil {
		if errors.Is(err, model.ErrExtractionFailed) {
			return nil, err
		}
		return nil, goerr.Wrap(model.ErrExtractionFailed, "extractor call failed", goerr.Value("cause", err.Error()))
	}

	logger.Debug("extracted candidate statements", "user_id", input.UserID, "count", len(candidates))

	output := &AddOutput{}
	for _, candidate := range candidates {
		affected, err := u.addCandidate(ctx, input, candidate)
		if err != nil {
			if errors.Is(err, model.ErrEmbeddingFailed) {
				logger.Warn("skipping candidate, embedding failed", "statement", candidate, "error", err)
				output.Skipped = append(output.Skipped, &SkippedCandidate{
					Statement: candidate,
					Reason:    err.Error(),
				})
				continue
			}
			return nil, err
		}
		output.Memories = append(output.Memories, affected)
	}

	return output, nil
}

// addCandidate applies the merge decision to a single extracted statement:
// EXTRACTED -> EMBEDDED -> {MATCHED -> update, NEW -> create}.
func (u *UseCase) addCandidate(ctx context.Context, input AddInput, candidate string) (*AddedMemory, error) {
	embedding, err := u.embed(ctx, candidate)
	if err != nil {
		return nil, err
	}

	entries, err := u.idx.Query(ctx, input.UserID, embedding, 1, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector index", goerr.Value("userID", input.UserID))
	}

	if len(entries) > 0 && entries[0].Score >= u.similarityThreshold {
		affected, err := u.mergeCandidate(ctx, input, candidate, entries[0].ID)
		if err != nil {
			return nil, err
		}
		if affected != nil {
			return affected, nil
		}
		// The matched memory vanished before the lock was taken; fall
		// through and create a fresh record.
	}

	return u.createCandidate(ctx, input, candidate, embedding)
}

// mergeCandidate updates the matched memory under its lock. Returns nil if
// the match no longer exists.
func (u *UseCase) mergeCandidate(ctx context.Context, input AddInput, candidate string, id model.MemoryID) (*AddedMemory, error) {
	release := u.locks.acquire(id)
	defer release()

	// The mutation runs to completion even if the caller gives up.
	ctx = context.WithoutCancel(ctx)

	prev, err := u.repo.GetMemory(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMemoryNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read matched memory", goerr.Value("id", id))
	}

	merged := u.mergeStrategy.Apply(prev.Content, candidate)

	embedding, err := u.embed(ctx, merged)
	if err != nil {
		return nil, err
	}

	next := prev.Clone()
	next.Content = merged
	next.Embedding = embedding
	next.UpdatedAt = time.Now()
	for k, v := range input.Metadata {
		if next.Metadata == nil {
			next.Metadata = make(map[string]string)
		}
		next.Metadata[k] = v
	}

	event := newEvent(next.ID, model.EventTypeUpdate, &prev.Content, &next.Content)
	if err := u.commitPut(ctx, prev, next, event); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("memory updated by merge decision",
		"memory_id", next.ID, "user_id", next.UserID)

	return &AddedMemory{Memory: next, Event: model.EventTypeUpdate}, nil
}

// createCandidate writes a brand-new memory record.
func (u *UseCase) createCandidate(ctx context.Context, input AddInput, candidate string, embedding []float32) (*AddedMemory, error) {
	now := time.Now()
	next := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   candidate,
		Embedding: embedding,
		UserID:    input.UserID,
		Metadata:  input.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	release := u.locks.acquire(next.ID)
	defer release()
	ctx = context.WithoutCancel(ctx)

	event := newEvent(next.ID, model.EventTypeAdd, nil, &next.Content)
	if err := u.commitPut(ctx, nil, next, event); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("memory created",
		"memory_id", next.ID, "user_id", next.UserID)

	return &AddedMemory{Memory: next, Event: model.EventTypeAdd}, nil
}

// embed wraps embedder failures into the engine's error taxonomy.
func (u *UseCase) embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := u.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, model.ErrEmbeddingFailed) {
			return nil, err
		}
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "embedder call failed", goerr.Value("cause", err.Error()))
	}
	return embedding, nil
}

func newEvent(id model.MemoryID, event model.EventType, prev, next *string) *model.HistoryEvent {
	return &model.HistoryEvent{
		ID:              model.NewHistoryEventID(),
		MemoryID:        id,
		Event:           event,
		PreviousContent: prev,
		NewContent:      next,
		CreatedAt:       time.Now(),
	}
}
