// Package options contains flags and options for initializing the aide server.
package options

import (
	"github.com/spf13/pflag"

	"github.com/aide-dev/aide/internal/aide"
	cacheopts "github.com/aide-dev/aide/pkg/options/cache"
	dbopts "github.com/aide-dev/aide/pkg/options/db"
	httpopts "github.com/aide-dev/aide/pkg/options/http"
	llmopts "github.com/aide-dev/aide/pkg/options/llm"
	logopts "github.com/aide-dev/aide/pkg/options/logger"
	qdrantopts "github.com/aide-dev/aide/pkg/options/qdrant"
	ragopts "github.com/aide-dev/aide/pkg/options/rag"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// DBOptions contains relational database configuration.
	DBOptions *dbopts.Options `json:"db" mapstructure:"db"`

	// QdrantOptions contains vector index configuration.
	QdrantOptions *qdrantopts.Options `json:"qdrant" mapstructure:"qdrant"`

	// EmbeddingOptions contains the embedding provider slot.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains the chat provider slot.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// CacheOptions contains answer cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// RAGOptions contains chunking and retrieval configuration.
	RAGOptions *ragopts.Options `json:"rag" mapstructure:"rag"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		LogOptions:       logopts.NewOptions(),
		HTTPOptions:      httpopts.NewOptions(),
		DBOptions:        dbopts.NewOptions(),
		QdrantOptions:    qdrantopts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		ChatOptions:      llmopts.NewChatOptions(),
		CacheOptions:     cacheopts.NewOptions(),
		RAGOptions:       ragopts.NewOptions(),
	}
}

// AddFlags registers every options group on the flagset.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.LogOptions.AddFlags(fs)
	o.HTTPOptions.AddFlags(fs)
	o.DBOptions.AddFlags(fs)
	o.QdrantOptions.AddFlags(fs)
	o.EmbeddingOptions.AddFlags(fs, "embedding")
	o.ChatOptions.AddFlags(fs, "chat")
	o.CacheOptions.AddFlags(fs)
	o.RAGOptions.AddFlags(fs)
}

// Complete fills in values left empty by flags and config.
func (o *ServerOptions) Complete() error {
	// The chat slot inherits the embedding slot's key when only one of
	// the two is configured against the same provider.
	if o.ChatOptions.APIKey == "" && o.ChatOptions.Provider == o.EmbeddingOptions.Provider {
		o.ChatOptions.APIKey = o.EmbeddingOptions.APIKey
	}
	return nil
}

// Validate validates all options groups.
func (o *ServerOptions) Validate() []error {
	var errs []error
	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, o.HTTPOptions.Validate()...)
	errs = append(errs, o.DBOptions.Validate()...)
	errs = append(errs, o.QdrantOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	errs = append(errs, o.RAGOptions.Validate()...)
	return errs
}

// Config converts the options into the server configuration.
func (o *ServerOptions) Config() *aide.Config {
	return &aide.Config{
		HTTP:      o.HTTPOptions,
		DB:        o.DBOptions,
		Qdrant:    o.QdrantOptions,
		Embedding: o.EmbeddingOptions,
		Chat:      o.ChatOptions,
		Cache:     o.CacheOptions,
		RAG:       o.RAGOptions,
	}
}
