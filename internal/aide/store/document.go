package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/aide-dev/aide/internal/model"
)

type documents struct {
	db *gorm.DB
}

func newDocuments(db *gorm.DB) *documents {
	return &documents{db}
}

// Create inserts a new document row.
func (d *documents) Create(ctx context.Context, doc *model.Document) error {
	return d.db.WithContext(ctx).Create(doc).Error
}

// Get retrieves a document by id.
func (d *documents) Get(ctx context.Context, id int64) (*model.Document, error) {
	var doc model.Document
	if err := d.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByIDs retrieves documents matching the given ids. Missing ids are
// simply absent from the result.
func (d *documents) FindByIDs(ctx context.Context, ids []int64) ([]*model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var docs []*model.Document
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
