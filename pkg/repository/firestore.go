package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	memoryCollection  = "memories"
	historyCollection = "memory_histories"
)

// Firestore implements Repository backed by Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.Value("projectID", projectID), goerr.Value("databaseID", databaseID))
	}

	return &Firestore{client: client}, nil
}

// memoryDoc is the Firestore document layout for a memory record. The
// embedding is stored as firestore.Vector32 so native vector queries remain
// possible even though the engine ranks through its own index.
type memoryDoc struct {
	ID        string             `firestore:"id"`
	Content   string             `firestore:"content"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	UserID    string             `firestore:"user_id"`
	Metadata  map[string]string  `firestore:"metadata"`
	CreatedAt time.Time          `firestore:"created_at"`
	UpdatedAt time.Time          `firestore:"updated_at"`
}

func toMemoryDoc(m *model.Memory) *memoryDoc {
	return &memoryDoc{
		ID:        string(m.ID),
		Content:   m.Content,
		Embedding: firestore.Vector32(m.Embedding),
		UserID:    m.UserID,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (d *memoryDoc) toModel() *model.Memory {
	return &model.Memory{
		ID:        model.MemoryID(d.ID),
		Content:   d.Content,
		Embedding: []float32(d.Embedding),
		UserID:    d.UserID,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type historyDoc struct {
	ID              string    `firestore:"id"`
	MemoryID        string    `firestore:"memory_id"`
	Event           string    `firestore:"event"`
	PreviousContent *string   `firestore:"previous_content"`
	NewContent      *string   `firestore:"new_content"`
	CreatedAt       time.Time `firestore:"created_at"`
}

func (f *Firestore) PutMemory(ctx context.Context, memory *model.Memory) error {
	doc := f.client.Collection(memoryCollection).Doc(string(memory.ID))
	if _, err := doc.Set(ctx, toMemoryDoc(memory)); err != nil {
		return goerr.Wrap(err, "failed to put memory", goerr.Value("id", memory.ID))
	}
	return nil
}

func (f *Firestore) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	snap, err := f.client.Collection(memoryCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrMemoryNotFound, "no such document", goerr.Value("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.Value("id", id))
	}

	var doc memoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode memory document", goerr.Value("id", id))
	}

	return doc.toModel(), nil
}

func (f *Firestore) ListMemories(ctx context.Context, userID string, filters map[string]string) ([]*model.Memory, error) {
	query := f.client.Collection(memoryCollection).Where("user_id", "==", userID)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var memories []*model.Memory
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memories", goerr.Value("userID", userID))
		}

		var doc memoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode memory document")
		}

		m := doc.toModel()
		// Metadata filters are applied client side; a composite index per
		// metadata key is not practical for arbitrary annotations.
		if !m.MatchMetadata(filters) {
			continue
		}
		memories = append(memories, m)
	}

	return memories, nil
}

func (f *Firestore) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	doc := f.client.Collection(memoryCollection).Doc(string(id))

	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrMemoryNotFound, "no such document", goerr.Value("id", id))
		}
		return goerr.Wrap(err, "failed to check memory", goerr.Value("id", id))
	}

	if _, err := doc.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.Value("id", id))
	}
	return nil
}

func (f *Firestore) PutHistory(ctx context.Context, event *model.HistoryEvent) error {
	doc := f.client.Collection(historyCollection).Doc(string(event.ID))
	record := &historyDoc{
		ID:              string(event.ID),
		MemoryID:        string(event.MemoryID),
		Event:           string(event.Event),
		PreviousContent: event.PreviousContent,
		NewContent:      event.NewContent,
		CreatedAt:       event.CreatedAt,
	}

	if _, err := doc.Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put history event", goerr.Value("id", event.ID))
	}
	return nil
}

func (f *Firestore) ListHistory(ctx context.Context, id model.MemoryID) ([]*model.HistoryEvent, error) {
	query := f.client.Collection(historyCollection).
		Where("memory_id", "==", string(id)).
		OrderBy("created_at", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var events []*model.HistoryEvent
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history", goerr.Value("memoryID", id))
		}

		var doc historyDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history document")
		}

		events = append(events, &model.HistoryEvent{
			ID:              model.HistoryEventID(doc.ID),
			MemoryID:        model.MemoryID(doc.MemoryID),
			Event:           model.EventType(doc.Event),
			PreviousContent: doc.PreviousContent,
			NewContent:      doc.NewContent,
			CreatedAt:       doc.CreatedAt,
		})
	}

	return events, nil
}

func (f *Firestore) Reset(ctx context.Context) error {
	for _, name := range []string{memoryCollection, historyCollection} {
		if err := f.clearCollection(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Firestore) clearCollection(ctx context.Context, name string) error {
	iter := f.client.Collection(name).Documents(ctx)
	defer iter.Stop()

	bw := f.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate collection", goerr.Value("collection", name))
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue delete", goerr.Value("collection", name))
		}
	}
	bw.End()

	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
