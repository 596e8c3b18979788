package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/repository"
)

func strPtr(s string) *string { return &s }

func TestInMemoryPutGet(t *testing.T) {
	repo := repository.NewInMemory()
	ctx := context.Background()

	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   "likes hiking",
		Embedding: []float32{0.1, 0.2, 0.3},
		UserID:    "u1",
		Metadata:  map[string]string{"source": "chat"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	gt.NoError(t, repo.PutMemory(ctx, m))

	got, err := repo.GetMemory(ctx, m.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Content, "likes hiking")
	gt.Equal(t, got.UserID, "u1")
	gt.Equal(t, got.Metadata["source"], "chat")

	// Mutating the returned copy must not affect stored state
	got.Content = "mutated"
	got.Metadata["source"] = "mutated"
	again, err := repo.GetMemory(ctx, m.ID)
	gt.NoError(t, err)
	gt.Equal(t, again.Content, "likes hiking")
	gt.Equal(t, again.Metadata["source"], "chat")
}

func TestInMemoryGetNotFound(t *testing.T) {
	repo := repository.NewInMemory()

	_, err := repo.GetMemory(context.Background(), model.MemoryID("missing"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrMemoryNotFound))
}

func TestInMemoryListScoping(t *testing.T) {
	repo := repository.NewInMemory()
	ctx := context.Background()

	now := time.Now()
	for i, tc := range []struct {
		user string
		meta map[string]string
	}{
		{"u1", map[string]string{"topic": "travel"}},
		{"u1", map[string]string{"topic": "food"}},
		{"u2", map[string]string{"topic": "travel"}},
	} {
		gt.NoError(t, repo.PutMemory(ctx, &model.Memory{
			ID:        model.NewMemoryID(),
			Content:   "memory",
			UserID:    tc.user,
			Metadata:  tc.meta,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := repo.ListMemories(ctx, "u1", nil)
	gt.NoError(t, err)
	gt.A(t, all).Length(2)

	filtered, err := repo.ListMemories(ctx, "u1", map[string]string{"topic": "travel"})
	gt.NoError(t, err)
	gt.A(t, filtered).Length(1)
	gt.Equal(t, filtered[0].Metadata["topic"], "travel")

	other, err := repo.ListMemories(ctx, "u3", nil)
	gt.NoError(t, err)
	gt.A(t, other).Length(0)
}

func TestInMemoryDelete(t *testing.T) {
	repo := repository.NewInMemory()
	ctx := context.Background()

	m := &model.Memory{ID: model.NewMemoryID(), Content: "x", UserID: "u1"}
	gt.NoError(t, repo.PutMemory(ctx, m))
	gt.NoError(t, repo.DeleteMemory(ctx, m.ID))

	_, err := repo.GetMemory(ctx, m.ID)
	gt.Error(t, err)

	// Second delete also fails
	gt.Error(t, repo.DeleteMemory(ctx, m.ID))
}

func TestInMemoryHistoryOrderAndSurvival(t *testing.T) {
	repo := repository.NewInMemory()
	ctx := context.Background()

	id := model.NewMemoryID()
	base := time.Now()

	events := []*model.HistoryEvent{
		{ID: model.NewHistoryEventID(), MemoryID: id, Event: model.EventTypeAdd, NewContent: strPtr("v1"), CreatedAt: base},
		{ID: model.NewHistoryEventID(), MemoryID: id, Event: model.EventTypeUpdate, PreviousContent: strPtr("v1"), NewContent: strPtr("v2"), CreatedAt: base.Add(time.Second)},
		{ID: model.NewHistoryEventID(), MemoryID: id, Event: model.EventTypeDelete, PreviousContent: strPtr("v2"), CreatedAt: base.Add(2 * time.Second)},
	}
	// Append out of order; listing must sort by timestamp
	gt.NoError(t, repo.PutHistory(ctx, events[2]))
	gt.NoError(t, repo.PutHistory(ctx, events[0]))
	gt.NoError(t, repo.PutHistory(ctx, events[1]))

	got, err := repo.ListHistory(ctx, id)
	gt.NoError(t, err)
	gt.A(t, got).Length(3)
	gt.Equal(t, got[0].Event, model.EventTypeAdd)
	gt.Equal(t, got[1].Event, model.EventTypeUpdate)
	gt.Equal(t, got[2].Event, model.EventTypeDelete)

	// History remains readable when no memory record exists
	_, err = repo.GetMemory(ctx, id)
	gt.Error(t, err)
}

func TestInMemoryReset(t *testing.T) {
	repo := repository.NewInMemory()
	ctx := context.Background()

	m := &model.Memory{ID: model.NewMemoryID(), Content: "x", UserID: "u1"}
	gt.NoError(t, repo.PutMemory(ctx, m))
	gt.NoError(t, repo.PutHistory(ctx, &model.HistoryEvent{
		ID: model.NewHistoryEventID(), MemoryID: m.ID, Event: model.EventTypeAdd, CreatedAt: time.Now(),
	}))

	gt.NoError(t, repo.Reset(ctx))

	list, err := repo.ListMemories(ctx, "u1", nil)
	gt.NoError(t, err)
	gt.A(t, list).Length(0)

	events, err := repo.ListHistory(ctx, m.ID)
	gt.NoError(t, err)
	gt.A(t, events).Length(0)
}
