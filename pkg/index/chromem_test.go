package index_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memvault/memvault/pkg/adapter/mock"
	"github.com/memvault/memvault/pkg/index"
	"github.com/memvault/memvault/pkg/model"
)

func embed(t *testing.T, text string) []float32 {
	vec, err := mock.NewEmbedder().Embed(context.Background(), text)
	gt.NoError(t, err)
	return vec
}

func put(t *testing.T, idx index.Index, userID, content string, metadata map[string]string) model.MemoryID {
	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   content,
		Embedding: embed(t, content),
		UserID:    userID,
		Metadata:  metadata,
	}
	gt.NoError(t, idx.Upsert(context.Background(), m))
	return m.ID
}

func TestChromemQueryRanking(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	target := put(t, idx, "u1", "lives in Denver", nil)
	put(t, idx, "u1", "likes hiking", nil)
	put(t, idx, "u1", "works as a nurse", nil)

	// Identical text embeds to the identical vector, so the target ranks first
	entries, err := idx.Query(ctx, "u1", embed(t, "lives in Denver"), 3, nil)
	gt.NoError(t, err)
	gt.A(t, entries).Length(3)
	gt.Equal(t, entries[0].ID, target)
	gt.Number(t, entries[0].Score).Greater(entries[1].Score)
}

func TestChromemQueryEmptyCollection(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)

	entries, err := idx.Query(context.Background(), "nobody", embed(t, "anything"), 5, nil)
	gt.NoError(t, err)
	gt.A(t, entries).Length(0)
}

func TestChromemUserScoping(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	put(t, idx, "u1", "lives in Denver", nil)
	other := put(t, idx, "u2", "lives in Denver", nil)

	entries, err := idx.Query(ctx, "u2", embed(t, "lives in Denver"), 10, nil)
	gt.NoError(t, err)
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].ID, other)
}

func TestChromemMetadataFilter(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	tagged := put(t, idx, "u1", "lives in Denver", map[string]string{"topic": "home"})
	put(t, idx, "u1", "likes hiking", map[string]string{"topic": "hobby"})

	entries, err := idx.Query(ctx, "u1", embed(t, "lives in Denver"), 10, map[string]string{"topic": "home"})
	gt.NoError(t, err)
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].ID, tagged)
}

func TestChromemUpsertReplaces(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Content:   "lives in Denver",
		Embedding: embed(t, "lives in Denver"),
		UserID:    "u1",
	}
	gt.NoError(t, idx.Upsert(ctx, m))

	m.Content = "lives in Boulder"
	m.Embedding = embed(t, "lives in Boulder")
	gt.NoError(t, idx.Upsert(ctx, m))

	entries, err := idx.Query(ctx, "u1", embed(t, "lives in Boulder"), 10, nil)
	gt.NoError(t, err)
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].ID, m.ID)
	gt.Number(t, entries[0].Score).Greater(0.999)
}

func TestChromemDelete(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	id := put(t, idx, "u1", "lives in Denver", nil)
	gt.NoError(t, idx.Delete(ctx, "u1", id))

	entries, err := idx.Query(ctx, "u1", embed(t, "lives in Denver"), 10, nil)
	gt.NoError(t, err)
	gt.A(t, entries).Length(0)
}

func TestChromemReset(t *testing.T) {
	idx, err := index.NewChromem("")
	gt.NoError(t, err)
	ctx := context.Background()

	put(t, idx, "u1", "lives in Denver", nil)
	put(t, idx, "u2", "likes hiking", nil)

	gt.NoError(t, idx.Reset(ctx))

	for _, user := range []string{"u1", "u2"} {
		entries, err := idx.Query(ctx, user, embed(t, "anything"), 10, nil)
		gt.NoError(t, err)
		gt.A(t, entries).Length(0)
	}
}
