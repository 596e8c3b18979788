package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}

func TestFirestorePutGetMemory(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   "lives in Denver",
		Embedding: []float32{0.1, 0.2, 0.3},
		UserID:    "test-user",
		Metadata:  map[string]string{"source": "integration-test"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	gt.NoError(t, repo.PutMemory(ctx, m))

	got, err := repo.GetMemory(ctx, m.ID)
	gt.NoError(t, err)
	gt.V(t, got).NotNil()
	gt.Equal(t, got.ID, m.ID)
	gt.Equal(t, got.Content, m.Content)
	gt.A(t, got.Embedding).Length(3)
}

func TestFirestoreGetMemoryNotFound(t *testing.T) {
	repo := setupFirestore(t)

	_, err := repo.GetMemory(context.Background(), model.MemoryID("non-existent-memory"))
	gt.Error(t, err)
}

func TestFirestoreListMemories(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	userID := "list-user-" + string(model.NewMemoryID())
	for _, content := range []string{"first", "second"} {
		gt.NoError(t, repo.PutMemory(ctx, &model.Memory{
			ID:        model.NewMemoryID(),
			Content:   content,
			UserID:    userID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}))
	}

	memories, err := repo.ListMemories(ctx, userID, nil)
	gt.NoError(t, err)
	gt.A(t, memories).Length(2)
}

func TestFirestoreHistory(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	id := model.NewMemoryID()
	content := "lives in Denver"
	updated := "lives in Boulder"
	now := time.Now()

	gt.NoError(t, repo.PutHistory(ctx, &model.HistoryEvent{
		ID:         model.NewHistoryEventID(),
		MemoryID:   id,
		Event:      model.EventTypeAdd,
		NewContent: &content,
		CreatedAt:  now,
	}))
	gt.NoError(t, repo.PutHistory(ctx, &model.HistoryEvent{
		ID:              model.NewHistoryEventID(),
		MemoryID:        id,
		Event:           model.EventTypeUpdate,
		PreviousContent: &content,
		NewContent:      &updated,
		CreatedAt:       now.Add(time.Second),
	}))

	events, err := repo.ListHistory(ctx, id)
	gt.NoError(t, err)
	gt.A(t, events).Length(2)
	gt.Equal(t, events[0].Event, model.EventTypeAdd)
	gt.Equal(t, events[1].Event, model.EventTypeUpdate)
	gt.Equal(t, *events[1].NewContent, updated)
}

func TestFirestoreDeleteMemory(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   "to be deleted",
		UserID:    "delete-user",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutMemory(ctx, m))
	gt.NoError(t, repo.DeleteMemory(ctx, m.ID))

	_, err := repo.GetMemory(ctx, m.ID)
	gt.Error(t, err)

	gt.Error(t, repo.DeleteMemory(ctx, m.ID))
}
