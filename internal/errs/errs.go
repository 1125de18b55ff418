// Package errs defines the error taxonomy of the people store.
//
// Domain errors (returned by the service layer):
//   - ValidationError: bad field or operator; always detected before any store access.
//   - ConfigurationError: a record was constructed with the wrong number of arguments.
//   - ConnectionError: the store could not be reached.
//   - QueryError: the store rejected a statement.
//   - ErrNotFound: the absent state of a lookup.
//
// HTTPError (http.go) is the shape these errors take at the API boundary.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks a lookup or delete that matched no row.
var ErrNotFound = errors.New("record not found")

// ValidationError carries every field violation found in one attempt.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field violations.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error concatenates all violation messages.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ConfigurationError reports a construction call that is neither load nor create.
type ConfigurationError struct {
	Got int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("must supply either only an id, or all six fields (got %d arguments)", e.Got)
}

// ConnectionError reports a store that could not be reached.
type ConnectionError struct {
	Op    string
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store unreachable during %s: %v", e.Op, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// QueryError reports a statement rejected by the store.
type QueryError struct {
	Op    string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("statement rejected during %s: %v", e.Op, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// IsStoreError reports whether err is a ConnectionError or QueryError.
func IsStoreError(err error) bool {
	var connErr *ConnectionError
	var queryErr *QueryError
	return errors.As(err, &connErr) || errors.As(err, &queryErr)
}
