package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ipms/pkg/domain"
	"ipms/pkg/logger"
	"ipms/pkg/storage"
)

// Submit button labels.
const (
	LabelSend    = "Send Message"
	LabelSending = "Sending..."
)

// FormState is a snapshot of everything a contact dialog renders.
type FormState struct {
	Open    bool
	Name    string
	Email   string
	Message string

	// Success and Error are the notices above the form.
	Success string
	Error   string
	// EmailError and MessageError are shown under their fields.
	EmailError   string
	MessageError string

	// Key identifies the rendered form; it changes after every finished submit.
	Key        string
	Phase      Phase
	Submitting bool
	CanSubmit  bool
	Label      string
}

// Form is the state machine behind one contact dialog. It is safe for
// concurrent use; at most one submission is in flight at a time.
type Form struct {
	submitter Submitter
	rules     Rules
	lifecycle lifecycle

	mu                       sync.Mutex
	open                     bool
	name, email, message     string
	success, errorNotice     string
	emailError, messageError string
	key                      string
}

// NewForm returns a closed, empty form that submits through submitter.
func NewForm(submitter Submitter, rules Rules) *Form {
	return &Form{
		submitter: submitter,
		rules:     rules,
		key:       uuid.NewString(),
	}
}

// Open shows the dialog.
func (f *Form) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = true
}

// Close hides the dialog. Name and email are not kept across a close; the
// message, notices and field errors are.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = false
	f.name, f.email = "", ""
}

// SetName sets the name field.
func (f *Form) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.name = name
}

// SetEmail sets the email field.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.email = email
}

// SetMessage replaces the message when text fits the length limit and clears
// the message error. Otherwise the previous text is kept, the message error is
// set and false is returned.
func (f *Form) SetMessage(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.rules.MessageFits(text) {
		f.messageError = f.rules.MessageTooLongNotice()

		return false
	}
	f.message = text
	f.messageError = ""

	return true
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.lifecycle.current() == PhaseSubmitting
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.canSubmitLocked()
}

func (f *Form) canSubmitLocked() bool {
	return f.lifecycle.current() != PhaseSubmitting && f.messageError == ""
}

// State returns a snapshot of the form.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	phase := f.lifecycle.current()
	label := LabelSend
	if phase == PhaseSubmitting {
		label = LabelSending
	}

	return FormState{
		Open:         f.open,
		Name:         f.name,
		Email:        f.email,
		Message:      f.message,
		Success:      f.success,
		Error:        f.errorNotice,
		EmailError:   f.emailError,
		MessageError: f.messageError,
		Key:          f.key,
		Phase:        phase,
		Submitting:   phase == PhaseSubmitting,
		CanSubmit:    f.canSubmitLocked(),
		Label:        label,
	}
}

// Submit validates the fields and, when they pass, sends them through the
// submitter. The outcome is reflected in the form state and also returned.
// A call made while another submission is in flight returns
// ErrSubmissionInFlight and leaves the state untouched.
func (f *Form) Submit(ctx context.Context) error {
	req, err := f.lifecycle.begin()
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.success, f.errorNotice = "", ""
	submission := domain.Submission{Name: f.name, Email: f.email, Message: f.message}

	if err := f.rules.Validate(submission); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			f.errorNotice = NoticeMissingFields
		case errors.Is(err, ErrInvalidEmail):
			f.emailError = NoticeInvalidEmail
		case errors.Is(err, ErrMessageTooLong):
			f.emailError = ""
			f.messageError = f.rules.MessageTooLongNotice()
		}
		f.mu.Unlock()
		req.abort()

		return err
	}
	f.emailError, f.messageError = "", ""
	f.mu.Unlock()

	_, err = f.send(ctx, submission)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case err == nil:
		f.success = NoticeSent
		f.resetLocked()
		req.succeed()
	case errors.Is(err, storage.ErrRemote):
		logger.Error(ctx, "error submitting contact form", zap.Error(err))
		f.errorNotice = NoticeSubmitFailed
		f.resetLocked()
		req.fail()
	default:
		logger.Error(ctx, "unexpected error submitting contact form", zap.Error(err))
		f.errorNotice = NoticeUnexpected
		req.fail()
	}
	f.refreshKeyLocked()

	return err
}

// send calls the submitter, turning a panic into an error.
func (f *Form) send(ctx context.Context, submission domain.Submission) (res *domain.Submission, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("submitter panicked: %v", p)
		}
	}()

	return f.submitter.Submit(ctx, submission)
}

func (f *Form) resetLocked() {
	f.name, f.email, f.message = "", "", ""
}

// refreshKeyLocked gives the form a new identity. Name and email are bound to
// the form identity and start empty again.
func (f *Form) refreshKeyLocked() {
	f.key = uuid.NewString()
	f.name, f.email = "", ""
}
