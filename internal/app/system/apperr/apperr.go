// Package apperr defines the error taxonomy shared by the stores and the
// route layer.
//
//   - ValidationError: a write would break a constraint (length caps,
//     uniqueness, task status, team size). Stored state is unchanged.
//   - NotFoundError: a referenced entity id is absent.
//   - IOError: durable storage could not be read or written.
//
// Validation and not-found errors are recoverable and carry a message that
// is safe to show to the caller. IOErrors wrap the underlying cause.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldViolation describes a single rejected field.
type FieldViolation struct {
	Field       string
	Description string
}

// ValidationError reports one or more constraint violations.
type ValidationError struct {
	Violations []FieldViolation
}

// Error joins the violation descriptions.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Description)
	}
	return strings.Join(parts, "; ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Violations: []FieldViolation{{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	}}}
}

// NotFoundError reports that an entity of Kind with ID does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IOError reports a failure to read or persist a data file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsIO reports whether err is or wraps an IOError.
func IsIO(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}
