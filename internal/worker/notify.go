package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"ipms/internal/contact"
	"ipms/pkg/logger"
	"ipms/pkg/notifier"
	"ipms/pkg/serrors"
)

// defaultSnooze is used when the receiver rate limits without saying for how long.
const defaultSnooze = 30 * time.Second

// NotifyWorker is a River worker delivering NotifySubmission jobs through a
// notifier.Client.
//
// The worker remembers the last rate-limit status reported by the receiver.
// While that status says the window is used up, jobs are snoozed until the
// window resets instead of calling the receiver.
//
// Error handling: a rejected notification (4xx) cancels the job, a rate-limited
// one is snoozed, and anything else is returned so River retries it up to the
// job's MaxAttempts.
type NotifyWorker struct {
	river.WorkerDefaults[contact.NotifyArgs]

	// client delivers notifications; nil turns every job into a no-op.
	client notifier.Client

	// mu protects lastRLStatus.
	mu           sync.Mutex
	lastRLStatus notifier.RateLimitStatus
}

// NewNotifyWorker constructs a NotifyWorker using the provided client.
func NewNotifyWorker(client notifier.Client) *NotifyWorker {
	return &NotifyWorker{client: client}
}

// Work delivers a single notification.
func (w *NotifyWorker) Work(ctx context.Context, job *river.Job[contact.NotifyArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("submissionID", job.Args.SubmissionID))

	if w.client == nil {
		logger.Info(ctx, "no webhook configured, skipping notification")

		return nil
	}

	if wait := w.exhaustedFor(time.Now()); wait > 0 {
		logger.Debug(ctx, "rate limit window used up, snoozing", zap.Duration("wait", wait))

		return river.JobSnooze(wait) //nolint: wrapcheck
	}

	rl, err := w.client.Notify(ctx, notifier.Notification{
		ID:        job.Args.SubmissionID,
		Name:      job.Args.Name,
		Email:     job.Args.Email,
		Message:   job.Args.Message,
		CreatedAt: job.Args.CreatedAt,
	})
	w.observe(rl)
	if err != nil {
		logger.Error(ctx, "error delivering notification", zap.Error(err))

		switch {
		case errors.Is(err, serrors.ErrBadRequest):
			return river.JobCancel(err) //nolint: wrapcheck
		case errors.Is(err, serrors.ErrRateLimited):
			return river.JobSnooze(snoozeFor(rl, time.Now())) //nolint: wrapcheck
		default:
			return fmt.Errorf("could not deliver notification: %w", err)
		}
	}

	logger.Info(ctx, "notification delivered")

	return nil
}

// observe adopts a rate-limit status reported by the receiver. Calls that
// reported nothing leave the previous view in place.
func (w *NotifyWorker) observe(rl notifier.RateLimitStatus) {
	if rl.ResetAt.IsZero() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastRLStatus = rl
}

// exhaustedFor returns how long to wait before the receiver accepts calls
// again, or zero when there is budget left.
func (w *NotifyWorker) exhaustedFor(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	rl := w.lastRLStatus
	if rl.Limit == 0 || rl.Remaining > 0 || !rl.ResetAt.After(now) {
		return 0
	}

	return rl.ResetAt.Sub(now)
}

func snoozeFor(rl notifier.RateLimitStatus, now time.Time) time.Duration {
	if rl.ResetAt.IsZero() {
		return defaultSnooze
	}
	if d := rl.ResetAt.Sub(now); d > time.Second {
		return d
	}

	return time.Second
}
