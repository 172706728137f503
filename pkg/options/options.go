// Package options defines the generic options interface shared by all
// configuration groups of the aide service.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join concatenates prefixes with "." and appends a trailing "." when the
// result is non-empty, producing flag names like "qdrant.base-url" or
// "prefix.qdrant.base-url".
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions is implemented by every options group.
type IOptions interface {
	// Validate validates the options and reports every problem found.
	Validate() []error

	// AddFlags registers the group's flags on the given flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
