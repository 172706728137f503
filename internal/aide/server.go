// Package aide assembles the document question-answering service.
package aide

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/aide-dev/aide/internal/aide/biz"
	"github.com/aide-dev/aide/internal/aide/handler"
	"github.com/aide-dev/aide/internal/aide/router"
	"github.com/aide-dev/aide/internal/aide/store"
	"github.com/aide-dev/aide/pkg/component/qdrant"
	"github.com/aide-dev/aide/pkg/llm"
	cacheopts "github.com/aide-dev/aide/pkg/options/cache"
	dbopts "github.com/aide-dev/aide/pkg/options/db"
	httpopts "github.com/aide-dev/aide/pkg/options/http"
	llmopts "github.com/aide-dev/aide/pkg/options/llm"
	qdrantopts "github.com/aide-dev/aide/pkg/options/qdrant"
	ragopts "github.com/aide-dev/aide/pkg/options/rag"
)

// Config carries the validated options the server is built from.
type Config struct {
	HTTP      *httpopts.Options
	DB        *dbopts.Options
	Qdrant    *qdrantopts.Options
	Embedding *llmopts.ProviderOptions
	Chat      *llmopts.ProviderOptions
	Cache     *cacheopts.Options
	RAG       *ragopts.Options
}

// Server is the assembled aide service.
type Server struct {
	cfg        *Config
	httpServer *http.Server
	store      store.Factory
	cache      *biz.AnswerCache
}

// NewServer wires stores, providers, services, and routes.
func NewServer(cfg *Config) (*Server, error) {
	factory, err := store.NewFactory(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	index, err := qdrant.NewClient(cfg.Qdrant)
	if err != nil {
		return nil, fmt.Errorf("init vector index: %w", err)
	}

	embedder, err := llm.NewEmbeddingProvider(cfg.Embedding.Provider, cfg.Embedding.ConfigMap())
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	chat, err := llm.NewChatProvider(cfg.Chat.Provider, cfg.Chat.ConfigMap())
	if err != nil {
		return nil, fmt.Errorf("init chat provider: %w", err)
	}

	ingestor, err := biz.NewIngestor(cfg.RAG.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("init ingestor: %w", err)
	}
	chunker, err := biz.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("init chunker: %w", err)
	}

	cache := biz.NewAnswerCache(cfg.Cache)

	docSvc := biz.NewDocumentService(factory, ingestor, chunker, embedder, index)
	searchSvc := biz.NewSearchService(factory, embedder, index, cfg.RAG.SearchLimit)
	askSvc := biz.NewAskService(searchSvc, chat, cache)

	gin.SetMode(cfg.HTTP.Mode)
	engine := gin.New()
	router.Register(engine,
		handler.NewDocumentHandler(docSvc, cfg.HTTP.MaxUploadSize),
		handler.NewSearchHandler(searchSvc),
		handler.NewAskHandler(askSvc),
	)

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		store: factory,
		cache: cache,
	}, nil
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully and releases the backing connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("http server listening", "addr", s.cfg.HTTP.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown failed", "error", err)
	}
	if err := s.cache.Close(); err != nil {
		logger.Warnw("cache close failed", "error", err)
	}
	return s.store.Close()
}
