// Package contact implements the contact form: the validation rules, the
// server-side Service that stores submissions and the Form state machine that
// drives a single dialog.
package contact

import (
	"context"

	"ipms/pkg/domain"
)

//go:generate mockgen -package mockcontact -source=contact.go -destination=mock/mockcontact.go *

// Submitter stores one validated submission.
type Submitter interface {
	Submit(ctx context.Context, submission domain.Submission) (*domain.Submission, error)
}

// Service is the server side of the contact form.
type Service interface {
	Submitter
	// Submissions returns a page of stored submissions, newest first. cursor is
	// the opaque cursor returned with the previous page, empty for the first page.
	Submissions(ctx context.Context, cursor string, limit uint) ([]domain.Submission, string, error)
}
