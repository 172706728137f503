// Package model provides data models for the aide service.
package model

import (
	"time"
)

// Document represents an uploaded document in the knowledge base.
type Document struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Project    string    `json:"project" gorm:"type:varchar(128);index;not null"`
	FilePath   string    `json:"file_path" gorm:"type:varchar(512);not null"` // Path under the docs directory
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// DocumentChunk represents one text chunk of a document.
type DocumentChunk struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	DocumentID int64  `json:"document_id" gorm:"index;not null"`
	ChunkIndex int    `json:"chunk_index" gorm:"not null"` // 0-based position within the document
	Content    string `json:"content" gorm:"type:text;not null"`
}

// TableName specifies the table name for DocumentChunk.
func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// UploadResult summarizes a successful document ingestion.
type UploadResult struct {
	DocumentID int64 `json:"document_id"`
	ChunkCount int   `json:"chunk_count"`
}

// SearchResult represents one retrieved chunk with its source document.
type SearchResult struct {
	DocumentID   int64   `json:"document_id"`
	DocumentName string  `json:"document_name"`
	DocumentPath string  `json:"document_path"`
	ChunkID      int64   `json:"chunk_id"`
	Content      string  `json:"content"`
	Score        float32 `json:"score"`
}

// AskResult represents a generated answer.
type AskResult struct {
	Answer string `json:"answer"`
}
