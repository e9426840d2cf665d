package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural parsing errors
	ErrMalformedTable = errors.New("malformed table")
	ErrEmptyTable     = errors.New("table is empty after cleaning")
	ErrSheetNotFound  = errors.New("sheet not found")

	// Input shape errors
	ErrNotTabular     = errors.New("input is not a series or table")
	ErrNoObservations = errors.New("series has no observations")

	// Parameter errors
	ErrInvalidConfidence = errors.New("confidence level must be between 0 and 1")
	ErrInvalidThreshold  = errors.New("threshold must not be negative")
	ErrInvalidMethod     = errors.New("unknown interval method")

	// Lookup errors
	ErrNotFound      = errors.New("resource not found")
	ErrGroupNotFound = fmt.Errorf("%w: group", ErrNotFound)
)

// NewMalformedError reports which structural assumption failed.
func NewMalformedError(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedTable, fmt.Sprintf(reason, args...))
}

func NewGroupNotFoundError(name string) error {
	return fmt.Errorf("%w %q", ErrGroupNotFound, name)
}

// Error checking helpers
func IsMalformedError(err error) bool {
	return errors.Is(err, ErrMalformedTable)
}

// IsSoftError reports errors that callers discard silently (noise blocks).
func IsSoftError(err error) bool {
	return errors.Is(err, ErrEmptyTable)
}

func IsParameterError(err error) bool {
	return errors.Is(err, ErrInvalidConfidence) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidMethod)
}
