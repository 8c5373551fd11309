package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ipms/internal/config"
	"ipms/pkg/domain"
	"ipms/pkg/serrors"
)

// CtxKey is the type of context keys set by this package.
type CtxKey string

// UserIDKey is the context key under which the authenticated user ID is stored.
const UserIDKey CtxKey = "UserID"

// SecHandlerOptions configure bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key verifying RS256 tokens. Empty
	// disables authenticated endpoints.
	PublicKey string
}

// NewSecHandlerOptions constructs SecHandlerOptions from the provided application config.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler verifies RS256 bearer tokens whose subject is a user ID.
type SecHandler struct {
	publicKey *rsa.PublicKey
}

// NewSecHandler parses the configured public key. Without one every token is rejected.
func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	if opts == nil || opts.PublicKey == "" {
		return &SecHandler{}, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{publicKey: key}, nil
}

// HandleBearerAuth validates token and returns a context carrying the user ID
// from its subject.
func (s SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	if s.publicKey == nil {
		return ctx, serrors.With(serrors.ErrUnauthorized, "authentication is not configured")
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return context.WithValue(ctx, UserIDKey, domain.UserID(userID)), nil
}

// GetUserIDFromContext returns the authenticated user ID, zero when absent.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	id, _ := ctx.Value(UserIDKey).(domain.UserID)

	return id
}

// Authenticated wraps next so it only runs for requests with a valid
// "Authorization: Bearer <token>" header.
func (h Handler) Authenticated(sec *SecHandler, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			h.WriteError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		ctx, err := sec.HandleBearerAuth(r.Context(), strings.TrimSpace(token))
		if err != nil {
			h.WriteError(w, r, err)

			return
		}

		next(w, r.WithContext(ctx))
	}
}
