// Package httpopts provides options for the HTTP server.
package httpopts

import (
	"fmt"
	"net"
	"time"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains HTTP server configuration.
type Options struct {
	// Addr is the listen address, host:port.
	Addr string `json:"addr" mapstructure:"addr"`

	// Mode is the gin mode (debug, release, test).
	Mode string `json:"mode" mapstructure:"mode"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`

	// MaxUploadSize caps document upload size in bytes.
	MaxUploadSize int64 `json:"max-upload-size" mapstructure:"max-upload-size"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Addr:          "0.0.0.0:8080",
		Mode:          "release",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  120 * time.Second,
		MaxUploadSize: 50 << 20,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Addr, p+"http.addr", o.Addr, "HTTP listen address.")
	fs.StringVar(&o.Mode, p+"http.mode", o.Mode, "Server mode (debug, release, test).")
	fs.DurationVar(&o.ReadTimeout, p+"http.read-timeout", o.ReadTimeout, "HTTP read timeout.")
	fs.DurationVar(&o.WriteTimeout, p+"http.write-timeout", o.WriteTimeout, "HTTP write timeout.")
	fs.Int64Var(&o.MaxUploadSize, p+"http.max-upload-size", o.MaxUploadSize, "Maximum upload size in bytes.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if _, _, err := net.SplitHostPort(o.Addr); err != nil {
		errs = append(errs, fmt.Errorf("invalid http addr %q: %w", o.Addr, err))
	}
	switch o.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("invalid http mode: %q", o.Mode))
	}
	if o.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("max upload size must be positive"))
	}
	return errs
}
