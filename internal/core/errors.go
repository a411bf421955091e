package core

import (
	"errors"
	"fmt"
)

// Parse failure kinds. ParseError unwraps to one of these.
var (
	ErrUnsupportedExtension = errors.New("unsupported file type")
	ErrEmptyFile            = errors.New("empty file")
	ErrMissingHeader        = errors.New("missing header row")
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnreadableFile       = errors.New("unreadable file")
	ErrTooManyRows          = errors.New("too many rows")
)

// ParseError rejects a whole upload before any row is examined.
type ParseError struct {
	Kind   error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Kind }

func parseErrorf(kind error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// UnknownImportTypeError is returned when an import type has no schema.
type UnknownImportTypeError struct {
	Type string
}

func (e *UnknownImportTypeError) Error() string {
	return fmt.Sprintf("unknown import type %q", e.Type)
}

// PersistenceError is a row-level failure from the entity store, such as a
// uniqueness conflict. It never aborts sibling rows.
type PersistenceError struct {
	Message string // user-facing
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err as a row-level failure.
func NewPersistenceError(message string, err error) *PersistenceError {
	return &PersistenceError{Message: message, Err: err}
}

// SystemError is a store failure unrelated to a specific row. It aborts the
// rest of an execute call.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string { return "system error: " + e.Err.Error() }

func (e *SystemError) Unwrap() error { return e.Err }

// NewSystemError marks err as aborting. A nil err stays nil.
func NewSystemError(err error) error {
	if err == nil {
		return nil
	}
	return &SystemError{Err: err}
}

// IsSystemError reports whether err carries a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}
