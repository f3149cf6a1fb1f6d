// Package storage defines the error taxonomy shared by the booking and
// trivia query layers. The sentinel values let handlers distinguish the
// expected failure kinds (missing row, conflicting write, rejected input)
// without inspecting driver error strings; anything outside this set is an
// operational failure and surfaces as a 500.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup by id matches no row. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a storage constraint, such
// as inserting a show that references a missing artist or venue. Handlers
// should translate this into an HTTP 409 or 422 response.
var ErrConflict = errors.New("conflict")

// ValidationError reports input rejected before it reaches storage. It
// names the offending field so the message can be surfaced to the client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError anywhere in its
// chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
