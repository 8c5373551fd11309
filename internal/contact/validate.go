package contact

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"ipms/pkg/domain"
	"ipms/pkg/serrors"
)

// DefaultMaxMessageLength is the default limit on the message, in characters.
const DefaultMaxMessageLength = 2000

// Notices shown to the person filling in the form.
const (
	NoticeMissingFields = "Please fill in all fields."
	NoticeInvalidEmail  = "Please enter a valid email address."
	NoticeSent          = "Message sent! We'll get back to you as soon as possible."
	NoticeSubmitFailed  = "There was an error submitting your form. Please try again."
	NoticeUnexpected    = "An unexpected error occurred. Please try again later."
)

var (
	// ErrMissingFields is returned when name, email or message is empty.
	ErrMissingFields = errors.New("missing fields")
	// ErrInvalidEmail is returned when the email does not look like an address.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrMessageTooLong is returned when the message exceeds the length limit.
	ErrMessageTooLong = errors.New("message too long")
	// ErrSubmissionInFlight is returned by Form.Submit while a previous submit
	// has not finished.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether email is acceptable as a contact address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// MessageLength counts the characters (code points) of a message.
func MessageLength(message string) int {
	return utf8.RuneCountInString(message)
}

// Rules validates submissions.
type Rules struct {
	// MaxMessageLength is the longest accepted message in characters.
	// Zero means DefaultMaxMessageLength.
	MaxMessageLength int
}

func (r Rules) maxMessageLength() int {
	if r.MaxMessageLength <= 0 {
		return DefaultMaxMessageLength
	}

	return r.MaxMessageLength
}

// MessageTooLongNotice is the notice shown when a message is over the limit.
func (r Rules) MessageTooLongNotice() string {
	return fmt.Sprintf("Message exceeds the maximum length of %d characters.", r.maxMessageLength())
}

// MessageFits reports whether message is within the length limit.
func (r Rules) MessageFits(message string) bool {
	return MessageLength(message) <= r.maxMessageLength()
}

// Validate checks a submission and returns the first failing rule: empty
// fields, then the email format, then the message length.
func (r Rules) Validate(submission domain.Submission) error {
	if submission.Name == "" || submission.Email == "" || submission.Message == "" {
		return serrors.Wrap(serrors.ErrBadRequest, ErrMissingFields, NoticeMissingFields)
	}
	if !IsValidEmail(submission.Email) {
		return serrors.Wrap(serrors.ErrBadRequest, ErrInvalidEmail, NoticeInvalidEmail)
	}
	if !r.MessageFits(submission.Message) {
		return serrors.Wrap(serrors.ErrBadRequest, ErrMessageTooLong, "%s", r.MessageTooLongNotice())
	}

	return nil
}
