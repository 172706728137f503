// Package ragopts provides options for the document pipeline.
package ragopts

import (
	"fmt"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains chunking and retrieval configuration.
type Options struct {
	// ChunkSize is the chunk window size in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is how many runes consecutive chunks share.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// SearchLimit caps the number of similarity hits per query.
	SearchLimit int `json:"search-limit" mapstructure:"search-limit"`

	// DocsDir is where uploaded documents are stored on disk.
	DocsDir string `json:"docs-dir" mapstructure:"docs-dir"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    500,
		ChunkOverlap: 50,
		SearchLimit:  5,
		DocsDir:      "data/docs",
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.IntVar(&o.ChunkSize, p+"rag.chunk-size", o.ChunkSize, "Chunk window size in runes.")
	fs.IntVar(&o.ChunkOverlap, p+"rag.chunk-overlap", o.ChunkOverlap, "Rune overlap between consecutive chunks.")
	fs.IntVar(&o.SearchLimit, p+"rag.search-limit", o.SearchLimit, "Maximum similarity hits per query.")
	fs.StringVar(&o.DocsDir, p+"rag.docs-dir", o.DocsDir, "Directory for uploaded documents.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive"))
	}
	if o.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("chunk overlap must not be negative"))
	}
	if o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", o.ChunkOverlap, o.ChunkSize))
	}
	if o.SearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("search limit must be positive"))
	}
	if o.DocsDir == "" {
		errs = append(errs, fmt.Errorf("docs dir is required"))
	}
	return errs
}
