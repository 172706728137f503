package store

import (
	"context"

	"github.com/aide-dev/aide/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Documents() DocumentStore
	Chunks() ChunkStore
	Close() error
}

// DocumentStore defines document storage.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, id int64) (*model.Document, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*model.Document, error)
}

// ChunkStore defines document chunk storage.
type ChunkStore interface {
	CreateInBatch(ctx context.Context, chunks []*model.DocumentChunk) error
	FindByIDs(ctx context.Context, ids []int64) ([]*model.DocumentChunk, error)
}
