package index

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	chromem "github.com/philippgille/chromem-go"
)

// Chromem implements Index on chromem-go, an embedded pure-Go vector
// database. Each user gets an own collection so queries never cross
// partition boundaries.
type Chromem struct {
	db          *chromem.DB
	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// NewChromem creates a chromem-backed index. With an empty path the index
// lives in process memory only; with a path it persists between runs.
func NewChromem(path string) (*Chromem, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open persistent vector index", goerr.Value("path", path))
		}
	}

	return &Chromem{
		db:          db,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func collectionName(userID string) string {
	if userID == "" {
		return "global"
	}
	return "user_" + userID
}

func (s *Chromem) getOrCreateCollection(userID string) (*chromem.Collection, error) {
	name := collectionName(userID)

	s.mu.RLock()
	col, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[name]; ok {
		return col, nil
	}

	// Embeddings are always supplied by the engine, so no embedding func
	// and the default cosine distance.
	col, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create collection", goerr.Value("userID", userID))
	}

	s.collections[name] = col
	return col, nil
}

func (s *Chromem) Upsert(ctx context.Context, memory *model.Memory) error {
	col, err := s.getOrCreateCollection(memory.UserID)
	if err != nil {
		return err
	}

	metadata := map[string]string{
		"user_id": memory.UserID,
	}
	for k, v := range memory.Metadata {
		metadata[k] = v
	}

	// AddDocument replaces an existing document with the same ID.
	doc := chromem.Document{
		ID:        string(memory.ID),
		Content:   memory.Content,
		Embedding: memory.Embedding,
		Metadata:  metadata,
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to upsert vector entry", goerr.Value("id", memory.ID))
	}

	return nil
}

func (s *Chromem) Query(ctx context.Context, userID string, embedding []float32, topK int, filters map[string]string) ([]*Entry, error) {
	col, err := s.getOrCreateCollection(userID)
	if err != nil {
		return nil, err
	}

	where := map[string]string{
		"user_id": userID,
	}
	for k, v := range filters {
		where[k] = v
	}

	// chromem rejects nResults larger than the collection, so clamp first.
	n := topK
	if count := col.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, embedding, n, where, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vector index", goerr.Value("userID", userID))
	}

	entries := make([]*Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, &Entry{
			ID:    model.MemoryID(r.ID),
			Score: float64(r.Similarity),
		})
	}

	return entries, nil
}

func (s *Chromem) Delete(ctx context.Context, userID string, id model.MemoryID) error {
	col, err := s.getOrCreateCollection(userID)
	if err != nil {
		return err
	}

	if err := col.Delete(ctx, nil, nil, string(id)); err != nil {
		return goerr.Wrap(err, "failed to delete vector entry", goerr.Value("id", id))
	}

	return nil
}

func (s *Chromem) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.db.ListCollections() {
		if err := s.db.DeleteCollection(name); err != nil {
			return goerr.Wrap(err, "failed to delete collection", goerr.Value("collection", name))
		}
	}
	s.collections = make(map[string]*chromem.Collection)

	return nil
}

func (s *Chromem) Close() error {
	return nil
}
