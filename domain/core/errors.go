package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Input errors
	ErrMissingColumn      = errors.New("required column missing")
	ErrEmptyTable         = errors.New("table has no header row")
	ErrUnsupportedFormat  = errors.New("unsupported table format")
	ErrUnrecognizedResult = errors.New("unrecognized result row")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMissingColumnError(role string, candidates []string) error {
	return fmt.Errorf("%w: %s (looked for %v)", ErrMissingColumn, role, candidates)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnrecognizedResult)
}
