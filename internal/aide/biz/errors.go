package biz

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks failures caused by the caller's input. Handlers
// map it to a 400 response; everything else is a 500.
var ErrInvalidInput = errors.New("invalid input")

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
