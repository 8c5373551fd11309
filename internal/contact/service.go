package contact

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ipms/internal/config"
	"ipms/pkg/domain"
	"ipms/pkg/logger"
	"ipms/pkg/serrors"
	"ipms/pkg/storage"
)

const instrumentationName = "ipms/internal/contact"

// Outcomes recorded on the contact.submissions counter.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeRemoteError = "remote_error"
	OutcomeUnexpected  = "unexpected"
)

// Options configure the contact service.
type Options struct {
	// MaxMessageLength is the longest accepted message in characters.
	MaxMessageLength int
	// Notify enqueues a NotifySubmission job in the same transaction as the
	// insert. It only takes effect when Deps.Tx is set.
	Notify bool
	// NotifyMaxAttempts bounds delivery attempts of a notification.
	NotifyMaxAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxMessageLength:  cfg.Contact.MaxMessageLength,
		Notify:            cfg.Contact.Notify,
		NotifyMaxAttempts: cfg.Worker.MaxAttempts,
	}
}

// Deps are the collaborators of the contact service.
type Deps struct {
	// Store receives submissions.
	Store storage.SubmissionWriter
	// Lister reads submissions back. It may use other credentials than Store.
	Lister storage.SubmissionLister
	// Tx, when set, is used to store a submission and its notification job
	// atomically.
	Tx storage.Transactor
	// Meter records submission outcomes. Nil disables metrics.
	Meter metric.Meter
	// Tracer traces submissions. Nil uses the global tracer provider.
	Tracer trace.Tracer
}

// service is the concrete implementation of the Service interface.
type service struct {
	options Options
	rules   Rules
	deps    Deps

	submissions metric.Int64Counter
}

// New creates a contact Service.
func New(deps Deps, options Options) (Service, error) {
	if deps.Store == nil {
		return nil, errors.New("contact service requires a submission store")
	}
	if deps.Meter == nil {
		deps.Meter = noop.NewMeterProvider().Meter(instrumentationName)
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer(instrumentationName)
	}

	counter, err := deps.Meter.Int64Counter("contact.submissions",
		metric.WithDescription("Contact form submissions by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create submissions counter: %w", err)
	}

	return &service{
		options:     options,
		rules:       Rules{MaxMessageLength: options.MaxMessageLength},
		deps:        deps,
		submissions: counter,
	}, nil
}

// Submit validates the submission and stores it. Every call performs its own
// insert; identical submissions are stored as separate rows.
func (s *service) Submit(ctx context.Context, submission domain.Submission) (*domain.Submission, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "contact.Submit")
	defer span.End()

	if err := s.rules.Validate(submission); err != nil {
		s.record(ctx, span, OutcomeInvalid, err)

		return nil, err
	}

	stored, err := s.store(ctx, submission)
	switch {
	case err == nil && stored == nil:
		err = errors.New("store returned no submission")
		s.record(ctx, span, OutcomeUnexpected, err)

		return nil, err
	case err == nil:
		s.record(ctx, span, OutcomeSuccess, nil)

		return stored, nil
	case errors.Is(err, storage.ErrRemote):
		s.record(ctx, span, OutcomeRemoteError, err)

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, NoticeSubmitFailed)
	case errors.Is(err, context.DeadlineExceeded):
		s.record(ctx, span, OutcomeUnexpected, err)

		return nil, serrors.Wrap(serrors.ErrTimeout, err, "request timed out")
	default:
		s.record(ctx, span, OutcomeUnexpected, err)

		return nil, fmt.Errorf("could not store submission: %w", err)
	}
}

// store performs the insert, together with the notification job when
// notifications are enabled. A panic in the backend is returned as an error.
func (s *service) store(ctx context.Context, submission domain.Submission) (stored *domain.Submission, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("submission store panicked: %v", p)
		}
	}()

	if !s.options.Notify || s.deps.Tx == nil {
		return s.deps.Store.StoreSubmission(ctx, submission)
	}

	err = s.deps.Tx.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.StoreSubmission(ctx, submission)
		if err != nil {
			return err
		}
		stored = res

		if _, err := tx.AddJob(ctx, NewNotifyArgs(*res, s.options.NotifyMaxAttempts), nil); err != nil {
			return fmt.Errorf("could not add notification job: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (s *service) record(ctx context.Context, span trace.Span, outcome string, err error) {
	s.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(attribute.String("contact.outcome", outcome))

	switch outcome {
	case OutcomeSuccess:
		span.SetStatus(codes.Ok, "")
	case OutcomeInvalid:
		logger.Debug(ctx, "rejected invalid submission", zap.Error(err))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Error(ctx, "could not store submission", zap.String("outcome", outcome), zap.Error(err))
	}
}

// Submissions returns a page of stored submissions. The returned cursor is
// empty on the last page.
func (s *service) Submissions(ctx context.Context, cursor string, limit uint) ([]domain.Submission, string, error) {
	if s.deps.Lister == nil {
		return nil, "", serrors.With(serrors.ErrUnavailable, "listing submissions is not configured")
	}

	from, err := storage.ParseCursor(cursor)
	if err != nil {
		return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
	}

	page, err := s.deps.Lister.Submissions(ctx, from, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get submissions: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.String()
	}

	return page.Submissions, next, nil
}
