package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is matched by every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError carries a human-readable message per offending field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e as an error when it has fields, otherwise nil.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError reports an entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a not-found error for the given entity kind and id.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError wraps a failure from the storage layer.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err for operation op. A nil err yields nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MalformedImportError reports a single record rejected during import.
// Index is the record's position in the batch, or -1 when the whole
// document could not be read.
type MalformedImportError struct {
	Index int
	ID    string
	Err   error
}

func (e *MalformedImportError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("malformed import: %v", e.Err)
	case e.ID != "":
		return fmt.Sprintf("malformed record %d (%s): %v", e.Index, e.ID, e.Err)
	default:
		return fmt.Sprintf("malformed record %d: %v", e.Index, e.Err)
	}
}

func (e *MalformedImportError) Unwrap() error { return e.Err }
