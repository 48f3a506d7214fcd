// Package apperr defines the error kinds shared by the repository, the
// editing console and the transport layers.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoSession is returned by session operations when nothing is being edited.
	ErrNoSession = errors.New("no editing session")
	// ErrSessionActive is returned when opening a session while another is still editing.
	ErrSessionActive = errors.New("an editing session is already open")

	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Field-level validation reasons.
const (
	ReasonRequired    = "required"
	ReasonNoChoices   = "must contain at least one choice"
	ReasonUnknownType = "unknown type"
)

// FieldError reports a single invalid field of a submitted draft.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationError carries every field error found during one submit attempt.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed with the given reason.
func (e *ValidationError) Has(field, reason string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Reason == reason {
			return true
		}
	}
	return false
}
