package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error returned by a service wraps exactly one of these,
// so callers branch with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidState       = errors.New("invalid state")
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrInvalidInput       = errors.New("invalid input")
)

// Error is a domain failure with a message meant for API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, id uint64) *Error {
	return newError(ErrNotFound, "%s with id %d not found", entity, id)
}
