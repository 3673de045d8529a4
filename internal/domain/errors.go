package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the core wraps exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrCapacity   = errors.New("no capacity")
	ErrInternal   = errors.New("internal error")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error   { return newError(ErrNotFound, format, args...) }
func Invalid(format string, args ...any) error    { return newError(ErrValidation, format, args...) }
func Conflict(format string, args ...any) error   { return newError(ErrConflict, format, args...) }
func NoCapacity(format string, args ...any) error { return newError(ErrCapacity, format, args...) }
func Internal(format string, args ...any) error   { return newError(ErrInternal, format, args...) }

// KindOf returns the error kind of err, or ErrInternal for errors that carry none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrConflict, ErrCapacity, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
