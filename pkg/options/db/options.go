// Package dbopts provides options for the relational database.
package dbopts

import (
	"fmt"

	"github.com/aide-dev/aide/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options contains relational database configuration.
type Options struct {
	// Driver selects the database driver (sqlite, postgres).
	Driver string `json:"driver" mapstructure:"driver"`

	// DSN is the driver-specific data source name. For sqlite this is a
	// file path (or ":memory:").
	DSN string `json:"dsn" mapstructure:"dsn"`

	// MaxOpenConns limits open connections.
	MaxOpenConns int `json:"max-open-conns" mapstructure:"max-open-conns"`

	// MaxIdleConns limits idle connections.
	MaxIdleConns int `json:"max-idle-conns" mapstructure:"max-idle-conns"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Driver:       DriverSQLite,
		DSN:          "data/aide.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.StringVar(&o.Driver, p+"db.driver", o.Driver, "Database driver (sqlite, postgres).")
	fs.StringVar(&o.DSN, p+"db.dsn", o.DSN, "Database data source name.")
	fs.IntVar(&o.MaxOpenConns, p+"db.max-open-conns", o.MaxOpenConns, "Maximum open database connections.")
	fs.IntVar(&o.MaxIdleConns, p+"db.max-idle-conns", o.MaxIdleConns, "Maximum idle database connections.")
}

// Validate validates the options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported db driver: %q", o.Driver))
	}
	if o.DSN == "" {
		errs = append(errs, fmt.Errorf("db dsn is required"))
	}
	return errs
}
