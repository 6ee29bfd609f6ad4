package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrFormat          = errors.New("not a valid .npy file")
	ErrMalformedHeader = errors.New("malformed .npy header")
	ErrHeaderTooLarge  = errors.New("header exceeds maximum size")
)

// FormatError reports a bad magic signature, an unsupported version or truncated data.
type FormatError struct {
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// MalformedHeaderError reports a header dictionary whose fields cannot be extracted.
type MalformedHeaderError struct {
	Field  string // Dictionary key that failed
	Header string // Offending header text
}

// Error implements the error interface.
func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q in %q", ErrMalformedHeader, e.Field, e.Header)
}

// Is reports whether target is ErrMalformedHeader.
func (e *MalformedHeaderError) Is(target error) bool {
	return target == ErrMalformedHeader
}

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
