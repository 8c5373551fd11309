package v1handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"ipms/pkg/domain"
	"ipms/pkg/serrors"
)

// Limits of the submission listing.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// DecodeSubmission reads a {name, email, message} JSON object. Unknown fields
// are ignored and null counts as an empty string.
func DecodeSubmission(data []byte) (domain.Submission, error) {
	var s domain.Submission

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return s, errors.New("request body must be a JSON object")
	}

	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var target *string
		switch string(key) {
		case "name":
			target = &s.Name
		case "email":
			target = &s.Email
		case "message":
			target = &s.Message
		default:
			return d.Skip()
		}

		switch d.Next() {
		case jx.Null:
			return d.Null()
		case jx.String:
			v, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "decode %s", key)
			}
			*target = v

			return nil
		default:
			return errors.Errorf("%s must be a string", key)
		}
	})
	if err != nil {
		return domain.Submission{}, errors.Wrap(err, "decode submission")
	}

	return s, nil
}

// EncodeSubmission writes a stored submission. A zero ID or creation time is
// written as null.
func EncodeSubmission(e *jx.Encoder, s *domain.Submission) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) {
			if s.ID.IsZero() {
				e.Null()

				return
			}
			e.Str(s.ID.String())
		})
		e.Field("name", func(e *jx.Encoder) { e.Str(s.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(s.Email) })
		e.Field("message", func(e *jx.Encoder) { e.Str(s.Message) })
		e.Field("createdAt", func(e *jx.Encoder) {
			if s.CreatedAt.IsZero() {
				e.Null()

				return
			}
			e.Str(s.CreatedAt.UTC().Format(time.RFC3339Nano))
		})
	})
}

// SubmitContact stores a contact form submission sent as a JSON body.
func (h Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.options.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteError(w, r, serrors.Wrap(serrors.ErrTooLarge, err, "request body too large"))

			return
		}
		h.WriteError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))

		return
	}

	in, err := DecodeSubmission(body)
	if err != nil {
		h.WriteError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	s, err := h.deps.Contact.Submit(r.Context(), in)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { EncodeSubmission(e, s) })
}

// ListSubmissions returns a page of stored submissions, newest first.
func (h Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			h.WriteError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit))

			return
		}
		limit = n
	}

	items, next, err := h.deps.Contact.Submissions(r.Context(), q.Get("cursor"), uint(limit)) //nolint: gosec
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range items {
						EncodeSubmission(e, &items[i])
					}
				})
			})
			e.Field("nextCursor", func(e *jx.Encoder) {
				if next == "" {
					e.Null()

					return
				}
				e.Str(next)
			})
		})
	})
}
