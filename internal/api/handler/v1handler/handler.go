// Package v1handler implements the v1 HTTP endpoints: contact submissions,
// the landing content document and the admin submission listing.
package v1handler

import (
	"context"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"ipms/internal/config"
	"ipms/internal/contact"
	"ipms/pkg/domain"
	"ipms/pkg/logger"
	"ipms/pkg/serrors"
)

// Deps are the services the handlers call into.
type Deps struct {
	Contact contact.Service
	Content *domain.Content
}

// Options configure request handling.
type Options struct {
	// MaxBodyBytes caps the size of a submission request body.
	MaxBodyBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxBodyBytes: cfg.HTTP.MaxBodyBytes}
}

// Handler serves the v1 API endpoints.
type Handler struct {
	deps    Deps
	options Options
}

// New creates a Handler calling into deps.
func New(deps Deps, options Options) *Handler {
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = 64 << 10
	}

	return &Handler{deps: deps, options: options}
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

type errorMapping struct {
	status  int
	message string
}

var errorMappings = map[serrors.Kind]errorMapping{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     {http.StatusNotFound, "resource not found"},
	serrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrBadRequest:   {http.StatusBadRequest, "bad request"},
	serrors.ErrTimeout:      {http.StatusGatewayTimeout, "request timed out"},
	serrors.ErrUnavailable:  {http.StatusServiceUnavailable, "service unavailable"},
	serrors.ErrRateLimited:  {http.StatusTooManyRequests, "too many requests"},
	serrors.ErrTooLarge:     {http.StatusRequestEntityTooLarge, "request body too large"},
}

// NewError maps err to an HTTP answer. Semantic kinds pick the status code and
// the message attached to the semantic error is returned to the client;
// anything else is an internal error whose details are only logged.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		logger.Error(ctx, "internal error", zap.Error(err))

		return &ErrorStatusCode{
			StatusCode: http.StatusInternalServerError,
			Response: ErrorResponse{
				Code:    serrors.ErrInternal.Error(),
				Message: "internal error",
			},
		}
	}

	if mapping.status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}

	msg := serrors.MessageOf(err)
	if msg == "" {
		msg = mapping.message
	}

	return &ErrorStatusCode{
		StatusCode: mapping.status,
		Response: ErrorResponse{
			Code:    kind.Error(),
			Message: msg,
		},
	}
}

// WriteError writes the answer NewError picks for err.
func (h Handler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Str(res.Response.Code) })
			e.Field("message", func(e *jx.Encoder) { e.Str(res.Response.Message) })
		})
	})
}

// Health answers liveness probes.
func (h Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
