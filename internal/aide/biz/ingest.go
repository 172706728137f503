package biz

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kart-io/logger"

	"github.com/aide-dev/aide/internal/aide/store"
	"github.com/aide-dev/aide/internal/model"
	"github.com/aide-dev/aide/pkg/component/qdrant"
	"github.com/aide-dev/aide/pkg/llm"
)

// VectorIndex is the slice of the vector store the pipeline needs.
// Implemented by qdrant.Client.
type VectorIndex interface {
	Upsert(ctx context.Context, chunkID, documentID int64, project string, vector []float32) error
	Search(ctx context.Context, vector []float32, topK int, project string) ([]qdrant.Match, error)
}

// DocumentService ingests documents and serves them back for download.
type DocumentService struct {
	store    store.Factory
	ingestor *Ingestor
	chunker  *Chunker
	embedder llm.EmbeddingProvider
	index    VectorIndex
}

// NewDocumentService wires the ingestion pipeline.
func NewDocumentService(factory store.Factory, ingestor *Ingestor, chunker *Chunker, embedder llm.EmbeddingProvider, index VectorIndex) *DocumentService {
	return &DocumentService{
		store:    factory,
		ingestor: ingestor,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
	}
}

// Upload ingests one document: store the file, extract and chunk its
// text, persist the rows, then embed and index each chunk in order. The
// first embedding or indexing failure aborts the loop and is returned;
// rows and vectors written before the failure are kept.
func (s *DocumentService) Upload(ctx context.Context, fileName string, file io.Reader, project string) (*model.UploadResult, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, invalidInputf("project is required")
	}
	if !Supported(fileName) {
		return nil, invalidInputf("unsupported file type %q", fileName)
	}

	rel, err := s.ingestor.Save(fileName, file)
	if err != nil {
		return nil, err
	}
	text, err := s.ingestor.ExtractText(rel)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Name:     fileName,
		Project:  project,
		FilePath: rel,
	}
	if err := s.store.Documents().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	pieces := s.chunker.Chunk(text)
	if len(pieces) == 0 {
		logger.Infow("document has no indexable text", "document_id", doc.ID, "name", fileName)
		return &model.UploadResult{DocumentID: doc.ID, ChunkCount: 0}, nil
	}

	rows := make([]*model.DocumentChunk, len(pieces))
	for i, content := range pieces {
		rows[i] = &model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    content,
		}
	}
	if err := s.store.Chunks().CreateInBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("create chunks: %w", err)
	}

	for _, row := range rows {
		vector, err := s.embedder.EmbedSingle(ctx, row.Content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", row.ID, err)
		}
		if err := s.index.Upsert(ctx, row.ID, doc.ID, project, vector); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", row.ID, err)
		}
	}

	logger.Infow("document ingested",
		"document_id", doc.ID, "name", fileName, "project", project, "chunks", len(rows))
	return &model.UploadResult{DocumentID: doc.ID, ChunkCount: len(rows)}, nil
}

// Download resolves a stored document and its absolute file path.
func (s *DocumentService) Download(ctx context.Context, id int64) (*model.Document, string, error) {
	if id <= 0 {
		return nil, "", invalidInputf("document id must be positive")
	}

	doc, err := s.store.Documents().Get(ctx, id)
	if err != nil {
		return nil, "", invalidInputf("document %d not found", id)
	}

	abs, err := s.ingestor.Resolve(doc.FilePath)
	if err != nil {
		return nil, "", err
	}
	return doc, abs, nil
}
