// Package servererrors defines the error taxonomy shared by all services.
// Every failure crossing a service boundary carries a Kind so the HTTP layer
// can pick a response without parsing message text.
package servererrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"          // missing entity by id or unique key
	KindConflict          Kind = "conflict"           // duplicate unique key
	KindInvalidState      Kind = "invalid_state"      // transition precondition violated
	KindInsufficientStock Kind = "insufficient_stock" // ship-time shortage; variant of invalid_state
	KindInvalid           Kind = "invalid_argument"   // malformed or out-of-range input
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return New(KindInvalidState, format, args...)
}

func InsufficientStock(format string, args ...any) *Error {
	return New(KindInsufficientStock, format, args...)
}

func Invalid(format string, args ...any) *Error {
	return New(KindInvalid, format, args...)
}

// KindOf extracts the Kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalidState also matches InsufficientStock, which specializes it.
func IsInvalidState(err error) bool {
	k := KindOf(err)
	return k == KindInvalidState || k == KindInsufficientStock
}

func IsInsufficientStock(err error) bool { return KindOf(err) == KindInsufficientStock }
