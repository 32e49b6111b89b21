// Package syntaxerr defines the error classes shared by the parsing layers.
// Callers test for a class with errors.Is; the wrapped message carries the
// detail.
package syntaxerr

import (
	"errors"
	"fmt"
)

var (
	// ErrResource reports pool or allocation exhaustion.
	ErrResource = errors.New("resource exhausted")
	// ErrConfiguration reports an unknown or mismatched language binding, or a
	// pattern naming node types, fields or captures the grammar does not have.
	ErrConfiguration = errors.New("configuration error")
	// ErrInput reports a source that the engine cannot address.
	ErrInput = errors.New("invalid input")
)

// Resourcef wraps ErrResource with a formatted detail.
func Resourcef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrResource, fmt.Sprintf(format, args...))
}

// Configurationf wraps ErrConfiguration with a formatted detail.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Inputf wraps ErrInput with a formatted detail.
func Inputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}
