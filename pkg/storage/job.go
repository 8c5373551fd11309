package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs next to the rows they refer to. When the
// backend is inside a transaction the job only becomes visible on commit.
type JobStorage interface {
	// AddJob enqueues a job and reports whether it was inserted (false when a
	// unique job with the same arguments already exists).
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
