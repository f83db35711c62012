// Package workflow provides the error taxonomy and transition helpers shared by the
// company request and company update state machines.
package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates malformed or missing caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates that an entity is not in a state that permits the requested transition.
	ErrConflict = errors.New("status conflict")
	// ErrEnrichment indicates that the external enrichment call failed or returned unusable output.
	ErrEnrichment = errors.New("enrichment failed")
	// ErrPersistence indicates that a data store write failed.
	ErrPersistence = errors.New("persistence failed")
)

// ConflictError reports the status an entity was in when a transition was refused.
type ConflictError struct {
	Entity        string
	ID            int64
	CurrentStatus string
}

// NewConflictError creates a ConflictError for the given entity.
func NewConflictError(entity string, id int64, currentStatus string) *ConflictError {
	return &ConflictError{Entity: entity, ID: id, CurrentStatus: currentStatus}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is already %s", e.Entity, e.ID, e.CurrentStatus)
}

// Unwrap allows errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Persistence wraps a data store error so callers can classify it.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// CurrentStatus extracts the status carried by a ConflictError, if any.
func CurrentStatus(err error) (string, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.CurrentStatus, true
	}
	return "", false
}
