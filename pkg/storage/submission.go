//go:generate mockgen -package mockstorage -source=submission.go -destination=mock/mocksubmission.go *
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ipms/pkg/domain"
)

// ErrInvalidCursor is returned by ParseCursor for malformed cursors.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a position in the created_at DESC, id DESC order of submissions.
// A page starting at a cursor holds the rows strictly after it in that order,
// so rows sharing a created_at are never skipped.
type Cursor struct {
	CreatedAt time.Time
	ID        domain.SubmissionID
}

// CursorOf returns the cursor positioned at submission.
func CursorOf(submission domain.Submission) Cursor {
	return Cursor{CreatedAt: submission.CreatedAt, ID: submission.ID}
}

// IsZero reports whether c is the start of the listing.
func (c Cursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID.IsZero()
}

// String encodes c as "<RFC3339Nano created_at>_<id>".
func (c Cursor) String() string {
	if c.IsZero() {
		return ""
	}

	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + c.ID.String()
}

// ParseCursor decodes a cursor produced by Cursor.String. A bare RFC3339
// timestamp is accepted as well and selects the rows created before it. The
// empty string is the zero cursor.
func ParseCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}

	ts, id, hasID := strings.Cut(s, "_")
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	if !hasID {
		return Cursor{CreatedAt: createdAt}, nil
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}

	return Cursor{CreatedAt: createdAt, ID: domain.SubmissionID(parsed)}, nil
}

// SubmissionPage groups a page of submissions with the cursor of the next page.
type SubmissionPage struct {
	// Submissions contains the current page, newest first.
	Submissions []domain.Submission
	// NextCursor points at the last row on this page. It is nil when there is
	// no next page.
	NextCursor *Cursor
}

// SubmissionWriter is the single remote insert of a contact submission.
type SubmissionWriter interface {
	// StoreSubmission inserts one submission and returns the row as stored,
	// including the datastore-generated ID and CreatedAt when the backend
	// reports them.
	StoreSubmission(ctx context.Context, submission domain.Submission) (*domain.Submission, error)
}

// SubmissionLister reads stored submissions back, newest first.
type SubmissionLister interface {
	// Submissions returns up to limit submissions ordered by created_at DESC,
	// id DESC that come strictly after cursor in that order (no bound when
	// cursor is zero).
	Submissions(ctx context.Context, cursor Cursor, limit uint) (SubmissionPage, error)
}

// SubmissionStorage is read and write access to submissions.
type SubmissionStorage interface {
	SubmissionWriter
	SubmissionLister
}
