// Package cacheopts provides options for the query result cache.
package cacheopts

import (
	"fmt"
	"time"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains Redis query cache configuration.
type Options struct {
	// Enabled turns the cache on. When disabled the pipeline always
	// recomputes answers.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Addr is the Redis address, host:port.
	Addr string `json:"addr" mapstructure:"addr"`

	// Password authenticates against Redis. Empty means no auth.
	Password string `json:"password" mapstructure:"password"`

	// DB selects the Redis database.
	DB int `json:"db" mapstructure:"db"`

	// TTL is how long cached answers live.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces cache keys.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Enabled:   false,
		Addr:      "localhost:6379",
		DB:        0,
		TTL:       time.Hour,
		KeyPrefix: "aide:answer:",
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.BoolVar(&o.Enabled, p+"cache.enabled", o.Enabled, "Enable the Redis answer cache.")
	fs.StringVar(&o.Addr, p+"cache.addr", o.Addr, "Redis address.")
	fs.StringVar(&o.Password, p+"cache.password", o.Password, "Redis password.")
	fs.IntVar(&o.DB, p+"cache.db", o.DB, "Redis database index.")
	fs.DurationVar(&o.TTL, p+"cache.ttl", o.TTL, "Cached answer time to live.")
	fs.StringVar(&o.KeyPrefix, p+"cache.key-prefix", o.KeyPrefix, "Cache key prefix.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("cache addr is required when cache is enabled"))
	}
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive"))
	}
	return errs
}
