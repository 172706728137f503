package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/aide-dev/aide/internal/aide/store"
	"github.com/aide-dev/aide/internal/model"
	"github.com/aide-dev/aide/pkg/llm"
)

// SearchService answers semantic queries over a project's documents.
type SearchService struct {
	store    store.Factory
	embedder llm.EmbeddingProvider
	index    VectorIndex
	limit    int
}

// NewSearchService wires the retrieval pipeline.
func NewSearchService(factory store.Factory, embedder llm.EmbeddingProvider, index VectorIndex, limit int) *SearchService {
	return &SearchService{
		store:    factory,
		embedder: embedder,
		index:    index,
		limit:    limit,
	}
}

// Search embeds the query, asks the vector index for the project's best
// matches, and joins them back to their chunk and document rows. The
// result keeps the index's descending score order; matches whose chunk
// or document row has gone missing are silently dropped.
func (s *SearchService) Search(ctx context.Context, query, project string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	project = strings.TrimSpace(project)
	if query == "" {
		return nil, invalidInputf("query is required")
	}
	if project == "" {
		return nil, invalidInputf("project is required")
	}

	vector, err := s.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.index.Search(ctx, vector, s.limit, project)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	chunkIDs := make([]int64, 0, len(matches))
	for _, m := range matches {
		chunkIDs = append(chunkIDs, m.ChunkID)
	}
	chunkRows, err := s.store.Chunks().FindByIDs(ctx, chunkIDs)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	chunkByID := make(map[int64]*model.DocumentChunk, len(chunkRows))
	for _, row := range chunkRows {
		chunkByID[row.ID] = row
	}

	docIDSet := make(map[int64]bool)
	var docIDs []int64
	for _, row := range chunkRows {
		if !docIDSet[row.DocumentID] {
			docIDSet[row.DocumentID] = true
			docIDs = append(docIDs, row.DocumentID)
		}
	}
	docRows, err := s.store.Documents().FindByIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	docByID := make(map[int64]*model.Document, len(docRows))
	for _, row := range docRows {
		docByID[row.ID] = row
	}

	results := make([]model.SearchResult, 0, len(matches))
	for _, m := range matches {
		chunk, ok := chunkByID[m.ChunkID]
		if !ok {
			logger.Debugw("dropping match without chunk row", "chunk_id", m.ChunkID)
			continue
		}
		doc, ok := docByID[chunk.DocumentID]
		if !ok {
			logger.Debugw("dropping match without document row",
				"chunk_id", m.ChunkID, "document_id", chunk.DocumentID)
			continue
		}
		results = append(results, model.SearchResult{
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			DocumentPath: doc.FilePath,
			ChunkID:      chunk.ID,
			Content:      chunk.Content,
			Score:        m.Score,
		})
	}
	return results, nil
}
