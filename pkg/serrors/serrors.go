// Package serrors implements semantic errors: a small set of kinds (not found,
// bad request, unavailable, ...) that travel through wrapped error chains so the
// HTTP layer can pick a status code without knowing where the error came from.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a kind sentinel. The name doubles as the error code sent to
// API clients.
func NewKind(name string) Kind { return kind{s: name} }

// Kinds produced by the contact service and its HTTP layer.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrBadRequest indicates the client sent invalid data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrInternal indicates an internal server error.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the request ran out of time.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the datastore answered with an error.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates a client or an upstream rate limit was hit.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrTooLarge indicates the request payload exceeds the accepted size.
	ErrTooLarge = NewKind("TOO_LARGE")
)

// KindOf returns the first semantic kind found in err's chain, or nil when the
// chain carries none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// Error carries a kind, an optional cause and an optional message meant for
// API clients. errors.Is and errors.As match both the kind and the cause.
// Its string is "<msg>: <cause>", falling back to whichever part is set and
// finally to the kind.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a client-facing message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: format(msgFmt, args)}
}

// Wrap is With plus a cause, which is logged but never shown to clients.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: format(msgFmt, args)}
}

// format leaves msg untouched without args, so user-facing text containing
// '%' survives.
func format(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}

	return fmt.Sprintf(msg, args...)
}

// KindOnly returns an error of kind k without message or cause.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches the kind or anything in the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches the kind or anything in the cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the kind of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// MessageOf returns the message of the outermost *Error in err's chain, or an
// empty string.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.msg
	}

	return ""
}
