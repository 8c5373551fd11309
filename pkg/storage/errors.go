package storage

import (
	"errors"
	"fmt"
)

// Common errors returned by storage implementations.
var (
	// ErrAlreadyInTx is returned when an operation requiring a non-transactional
	// context is attempted while already inside a transaction.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned when a transaction-specific operation is attempted
	// while not currently inside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrRemote matches any *RemoteError with errors.Is.
	ErrRemote = errors.New("remote store error")
)

// RemoteError is an error answer from the datastore itself, as opposed to a
// failure to reach it. A hosted backend returns it for non-2xx responses; the
// postgres backend returns it for rejected statements.
type RemoteError struct {
	// Status is the HTTP status of the answer, zero for non-HTTP backends.
	Status int
	// Code is the backend error code (PostgREST or SQLSTATE).
	Code string
	// Message is the backend's human-readable message.
	Message string
	// Details and Hint carry optional extra context from the backend.
	Details string
	Hint    string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "remote store rejected the request"
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("status %d: %s", e.Status, msg)
	}

	return msg
}

// Is makes errors.Is(err, ErrRemote) true for every *RemoteError.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote //nolint: errorlint
}
