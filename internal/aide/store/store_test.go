package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aide-dev/aide/internal/model"
	dbopts "github.com/aide-dev/aide/pkg/options/db"
)

func newTestFactory(t *testing.T) Factory {
	t.Helper()
	factory, err := NewFactory(&dbopts.Options{
		Driver: dbopts.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func TestDocumentCreateAndGet(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	doc := &model.Document{
		Name:     "guide.pdf",
		Project:  "docs",
		FilePath: "docs/guide.pdf",
	}
	require.NoError(t, factory.Documents().Create(ctx, doc))
	assert.Positive(t, doc.ID)

	got, err := factory.Documents().Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "guide.pdf", got.Name)
	assert.Equal(t, "docs", got.Project)
	assert.False(t, got.UploadedAt.IsZero())
}

func TestDocumentGetMissing(t *testing.T) {
	factory := newTestFactory(t)

	_, err := factory.Documents().Get(context.Background(), 999)
	assert.Error(t, err)
}

func TestDocumentFindByIDs(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		doc := &model.Document{Name: name, Project: "docs", FilePath: "docs/" + name}
		require.NoError(t, factory.Documents().Create(ctx, doc))
		ids = append(ids, doc.ID)
	}

	docs, err := factory.Documents().FindByIDs(ctx, []int64{ids[0], ids[2], 999})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = factory.Documents().FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChunkBatchInsertAssignsIDs(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	doc := &model.Document{Name: "a.txt", Project: "docs", FilePath: "docs/a.txt"}
	require.NoError(t, factory.Documents().Create(ctx, doc))

	batch := []*model.DocumentChunk{
		{DocumentID: doc.ID, ChunkIndex: 0, Content: "first"},
		{DocumentID: doc.ID, ChunkIndex: 1, Content: "second"},
	}
	require.NoError(t, factory.Chunks().CreateInBatch(ctx, batch))
	assert.Positive(t, batch[0].ID)
	assert.Positive(t, batch[1].ID)
	assert.NotEqual(t, batch[0].ID, batch[1].ID)

	rows, err := factory.Chunks().FindByIDs(ctx, []int64{batch[0].ID, batch[1].ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, factory.Chunks().CreateInBatch(ctx, nil))
}
