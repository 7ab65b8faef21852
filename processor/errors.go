package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound means a name used by an operator is not defined
	// in the current resources.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidOperands means an operator got the wrong number or type of
	// operands. Such operators are skipped.
	ErrInvalidOperands = errors.New("invalid operands")
)

// ResourceError reports a missing font, XObject or other named resource.
type ResourceError struct {
	Kind string // resource category, such as "Font" or "XObject"
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s resource /%s: %v", e.Kind, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

func missing(kind, name string) error {
	return &ResourceError{Kind: kind, Name: name, Err: ErrResourceNotFound}
}

func operandError(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidOperands, fmt.Sprintf(format, args...))
}
