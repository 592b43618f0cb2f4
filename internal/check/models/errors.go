package models

import (
	"fmt"

	"vouch/pkg/platform/sentinel"
)

// NotFoundError means the requested name resolved to no subject. User
// correctable, never retried.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no subject found for name %q", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return sentinel.ErrNotFound
}

// ResolutionError wraps a lookup failure that was not a clean miss.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// InvalidInputError means malformed metrics reached the evaluator. This does
// not occur in the normal flow; it indicates an aggregation bug and is
// reported as internal.
type InvalidInputError struct {
	Field string
	Value int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %d (must not be negative)", e.Field, e.Value)
}
