package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every admin service. Typed errors below unwrap to one of these
// so callers can branch with errors.Is regardless of the resource involved.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError reports a uniqueness violation on a resource field.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	field := strings.TrimSpace(e.Field)
	if field == "" {
		field = "key"
	}
	if e.Value == "" {
		return fmt.Sprintf("%s %s already exists", e.Resource, field)
	}
	return fmt.Sprintf("%s %s %q already exists", e.Resource, field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InvalidStateError reports an operation blocked by the current state of a record.
type InvalidStateError struct {
	Resource string
	ID       int64
	Reason   string
}

func (e *InvalidStateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %d is in an invalid state", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, e.Reason)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// NotFound builds a NotFoundError keyed by a numeric identifier.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, Key: fmt.Sprintf("%d", id)}
}

// IsNotFound reports whether err belongs to the not-found category.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
