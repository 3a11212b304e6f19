package estu

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the encoder wraps exactly one of these,
// so callers can route with errors.Is.
var (
	ErrMalformedInput       = errors.New("malformed input")
	ErrDegenerateArithmetic = errors.New("degenerate arithmetic")
	ErrFieldOverflow        = errors.New("field overflow")
	ErrDependencyFailure    = errors.New("dependency failure")
)

// FieldError reports which column of the record could not be produced.
type FieldError struct {
	Field  string
	Kind   error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("estu %s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("estu %s: %v: %s", e.Field, e.Kind, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func fieldErr(field string, kind error, format string, args ...any) error {
	return &FieldError{Field: field, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
