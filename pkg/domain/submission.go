package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionID uniquely identifies a stored contact submission. It is assigned
// by the datastore, never by this service.
type SubmissionID uuid.UUID

// String returns the canonical UUID form of the identifier.
func (id SubmissionID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the datastore did not return an identifier.
func (id SubmissionID) IsZero() bool { return id == SubmissionID(uuid.Nil) }

// Submission is a single contact form submission: the name, email and message
// triple entered in the contact dialog.
type Submission struct {
	// ID is the datastore identifier. Zero until the row is stored.
	ID SubmissionID `json:"id"`

	// Name is the sender's free-text name.
	Name string `json:"name"`
	// Email is the sender's reply address.
	Email string `json:"email"`
	// Message is the free-text body.
	Message string `json:"message"`

	// CreatedAt is set by the datastore on insert.
	CreatedAt time.Time `json:"createdAt"`
}
