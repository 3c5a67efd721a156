package suppliers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoRows is returned by stores when a lookup or write matched nothing.
	ErrNoRows = errors.New("no rows")
	// ErrUnauthorized marks storage failures caused by a missing or expired
	// staff session.
	ErrUnauthorized = errors.New("storage authorization failed")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned before storage is contacted.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Reason returns the first human-readable failure.
func (e *ValidationError) Reason() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}

// Fields indexes messages by field name.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

// StatusCoder is implemented by backend errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// StorageError wraps a read or write failure reported by the backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("suppliers: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Message returns the raw backend message.
func (e *StorageError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Is lets errors.Is(err, ErrUnauthorized) match 401/403 backend replies.
func (e *StorageError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	var sc StatusCoder
	if errors.As(e.Err, &sc) {
		return sc.StatusCode() == http.StatusUnauthorized || sc.StatusCode() == http.StatusForbidden
	}
	return false
}

// NotFoundError is returned when a lookup by id yields no row.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("suppliers: supplier %s not found", e.ID)
}
