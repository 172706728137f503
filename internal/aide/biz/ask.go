package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/aide-dev/aide/internal/model"
	"github.com/aide-dev/aide/pkg/llm"
)

// NoAnswerFallback is returned when retrieval finds nothing relevant.
const NoAnswerFallback = "No relevant documentation found for your query."

const askSystemPrompt = `You are a documentation assistant. Answer the question using ONLY the provided documentation context. If the context does not contain the answer, say that the documentation does not cover it. Do not invent information.`

// AskService generates grounded answers from retrieved documentation.
type AskService struct {
	search *SearchService
	chat   llm.ChatProvider
	cache  *AnswerCache
}

// NewAskService wires retrieval and generation. cache may be nil.
func NewAskService(search *SearchService, chat llm.ChatProvider, cache *AnswerCache) *AskService {
	return &AskService{
		search: search,
		chat:   chat,
		cache:  cache,
	}
}

// Ask retrieves the question's context within the project and generates
// an answer from it. No retrieved context yields a fixed fallback answer
// without calling the model.
func (s *AskService) Ask(ctx context.Context, question, project string) (*model.AskResult, error) {
	question = strings.TrimSpace(question)
	project = strings.TrimSpace(project)
	if question == "" {
		return nil, invalidInputf("question is required")
	}
	if project == "" {
		return nil, invalidInputf("project is required")
	}

	if answer, ok := s.cache.Get(ctx, project, question); ok {
		logger.Debugw("answer served from cache", "project", project)
		return &model.AskResult{Answer: answer}, nil
	}

	results, err := s.search.Search(ctx, question, project)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &model.AskResult{Answer: NoAnswerFallback}, nil
	}

	prompt := buildPrompt(question, results)
	answer, err := s.chat.Generate(ctx, prompt, askSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	s.cache.Set(ctx, project, question, answer)
	return &model.AskResult{Answer: answer}, nil
}

func buildPrompt(question string, results []model.SearchResult) string {
	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, fmt.Sprintf("[Chunk %d]\n%s", r.ChunkID, r.Content))
	}

	var b strings.Builder
	b.WriteString("Documentation context:\n\n")
	b.WriteString(strings.Join(sections, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
