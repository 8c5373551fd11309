package contact

import (
	"time"

	"github.com/riverqueue/river"

	"ipms/pkg/domain"
)

// NotifyArgs is the River job enqueued next to a stored submission. The worker
// delivers it to the configured webhook.
type NotifyArgs struct {
	// SubmissionID is unique so one submission never produces two jobs.
	SubmissionID string    `json:"submissionId" river:"unique"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`

	maxAttempts int
}

// NewNotifyArgs builds the job arguments for a stored submission.
func NewNotifyArgs(submission domain.Submission, maxAttempts int) NotifyArgs {
	return NotifyArgs{
		SubmissionID: submission.ID.String(),
		Name:         submission.Name,
		Email:        submission.Email,
		Message:      submission.Message,
		CreatedAt:    submission.CreatedAt,
		maxAttempts:  maxAttempts,
	}
}

// Kind returns the River job kind the notification worker is registered for.
func (args NotifyArgs) Kind() string { return "NotifySubmission" }

// InsertOpts bounds retries and keeps one job per submission.
func (args NotifyArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}
