// Package qdrantopts provides options for the Qdrant vector index client.
package qdrantopts

import (
	"fmt"
	"strings"
	"time"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Qdrant client configuration.
type Options struct {
	// BaseURL is the Qdrant REST endpoint.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey for authentication (optional).
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Collection is the collection owned by this service.
	Collection string `json:"collection" mapstructure:"collection"`

	// Dimension is the fixed vector dimension of the collection.
	Dimension int `json:"dimension" mapstructure:"dimension"`

	// ScoreThreshold is the minimum (exclusive) similarity score for a
	// search hit to be considered relevant.
	ScoreThreshold float32 `json:"score-threshold" mapstructure:"score-threshold"`

	// Timeout for HTTP requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		BaseURL:        "http://localhost:6333",
		Collection:     "aide",
		Dimension:      768,
		ScoreThreshold: 0.65,
		Timeout:        15 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"qdrant.base-url", o.BaseURL, "Qdrant REST endpoint.")
	fs.StringVar(&o.APIKey, options.Join(prefixes...)+"qdrant.api-key", o.APIKey, "Qdrant API key.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"qdrant.collection", o.Collection, "Qdrant collection name.")
	fs.IntVar(&o.Dimension, options.Join(prefixes...)+"qdrant.dimension", o.Dimension, "Embedding vector dimension.")
	fs.Float32Var(&o.ScoreThreshold, options.Join(prefixes...)+"qdrant.score-threshold", o.ScoreThreshold, "Minimum similarity score for search results.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"qdrant.timeout", o.Timeout, "Request timeout.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if strings.TrimSpace(o.BaseURL) == "" {
		errs = append(errs, fmt.Errorf("qdrant base-url is required"))
	}
	if strings.TrimSpace(o.Collection) == "" {
		errs = append(errs, fmt.Errorf("qdrant collection is required"))
	}
	if o.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("qdrant dimension must be positive"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("qdrant timeout must be positive"))
	}
	return errs
}
