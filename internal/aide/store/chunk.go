package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/aide-dev/aide/internal/model"
)

type chunks struct {
	db *gorm.DB
}

func newChunks(db *gorm.DB) *chunks {
	return &chunks{db}
}

// CreateInBatch inserts chunk rows in one batch, filling in their ids.
func (c *chunks) CreateInBatch(ctx context.Context, batch []*model.DocumentChunk) error {
	if len(batch) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).CreateInBatches(batch, 100).Error
}

// FindByIDs retrieves chunks matching the given ids. Missing ids are
// simply absent from the result.
func (c *chunks) FindByIDs(ctx context.Context, ids []int64) ([]*model.DocumentChunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*model.DocumentChunk
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
