// ABOUTME: Error values for the WAV container codec
// ABOUTME: Separates structural failures from stream I/O failures
package wav

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedContainer = errors.New("wav: malformed container")
)

// IOError reports a failure opening, reading or writing a byte stream.
type IOError struct {
	Op   string // "open", "read", "write", "create", "close"
	Path string // empty for plain streams
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wav: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("wav: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedContainer, fmt.Sprintf(format, args...))
}
