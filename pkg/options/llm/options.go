// Package llmopts provides options for LLM provider configuration.
package llmopts

import (
	"fmt"
	"time"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions contains configuration for one LLM provider slot.
// The embedding and chat slots may point at different providers.
type ProviderOptions struct {
	// Provider is the provider name (gemini, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base address.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the provider API key.
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Model is the model name used by this slot.
	Model string `json:"model" mapstructure:"model"`

	// Timeout for provider requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewEmbeddingOptions creates defaults for the embedding slot.
func NewEmbeddingOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "gemini",
		Model:    "text-embedding-004",
		Timeout:  120 * time.Second,
	}
}

// NewChatOptions creates defaults for the chat slot.
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "gemini",
		Model:    "gemini-1.5-flash",
		Timeout:  120 * time.Second,
	}
}

// AddFlags adds flags to the flagset.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "LLM provider (gemini, openai).")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "Provider API base URL (empty for the provider default).")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "Provider API key.")
	fs.StringVar(&o.Model, p+"model", o.Model, "Model name.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Provider request timeout.")
}

// Validate validates the options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("llm provider is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("llm model is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm timeout must be positive"))
	}
	return errs
}

// ConfigMap converts the options into the map consumed by provider factories.
func (o *ProviderOptions) ConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"embed_model": o.Model,
		"chat_model":  o.Model,
		"timeout":     o.Timeout,
	}
}
