// ABOUTME: Authentication decision procedure for client-signed bearer tokens
// ABOUTME: Resolves the token subject to a registered user and verifies the signature

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/pqlab/internal/store"
	"github.com/2389/pqlab/internal/token"
)

const bearerScheme = "Bearer"

// UserLookup is the subset of the user store the Authenticator needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*store.User, error)
}

// Identity is the authenticated caller. Every field comes from the user store.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

// Authenticator turns an Authorization header value into an Identity.
// It holds no per-request state and is safe for concurrent use.
type Authenticator struct {
	users          UserLookup
	requireBearer  bool
	maxTokenLength int
	logger         *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger.With("component", "auth")
	}
}

// WithRequireBearer controls whether the scheme must be "Bearer".
// When false any scheme word is accepted and discarded.
func WithRequireBearer(require bool) Option {
	return func(a *Authenticator) {
		a.requireBearer = require
	}
}

// WithMaxTokenLength rejects tokens longer than n bytes as malformed headers.
// Zero disables the limit.
func WithMaxTokenLength(n int) Option {
	return func(a *Authenticator) {
		a.maxTokenLength = n
	}
}

// NewAuthenticator creates an Authenticator backed by users.
func NewAuthenticator(users UserLookup, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:         users,
		requireBearer: true,
		logger:        slog.Default().With("component", "auth"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate runs the decision procedure on an Authorization header value.
// A nil authorization means the header was absent.
//
// The steps run in order and the first failure is returned as an *Error:
// header presence, header shape, token parse, subject resolution, and
// signature verification against the stored public key.
func (a *Authenticator) Authenticate(ctx context.Context, authorization *string) (*Identity, error) {
	if authorization == nil {
		a.logger.Debug("authentication failed", "kind", KindHeaderMissing)
		return nil, fail(KindHeaderMissing, nil)
	}

	wire, err := a.extractToken(*authorization)
	if err != nil {
		a.logger.Debug("authentication failed", "kind", KindMalformedHeader, "error", err)
		return nil, fail(KindMalformedHeader, err)
	}

	tok, err := token.Parse(wire)
	if err != nil {
		a.logger.Debug("authentication failed", "kind", KindMalformedToken, "error", err)
		return nil, fail(KindMalformedToken, err)
	}

	subject, err := uuid.Parse(tok.Sub)
	if err != nil {
		a.logger.Debug("authentication failed", "kind", KindInvalidSubject)
		return nil, fail(KindInvalidSubject, err)
	}

	user, err := a.users.GetUserByID(ctx, subject)
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Debug("authentication failed", "kind", KindUserNotFound, "subject", subject)
		return nil, fail(KindUserNotFound, err)
	}
	if err != nil {
		a.logger.Error("user lookup failed", "kind", KindStoreUnavailable, "subject", subject, "error", err)
		return nil, fail(KindStoreUnavailable, err)
	}

	ok, err := tok.Verify(user.PublicKey)
	if err != nil || !ok {
		a.logger.Warn("authentication failed", "kind", KindSignatureInvalid, "subject", subject, "error", err)
		return nil, fail(KindSignatureInvalid, err)
	}

	a.logger.Debug("authenticated", "subject", subject)
	return &Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

// extractToken splits "<scheme> <token>" and returns the token.
func (a *Authenticator) extractToken(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return "", errors.New("expected scheme and token")
	}
	if a.requireBearer && !strings.EqualFold(fields[0], bearerScheme) {
		return "", errors.New("unsupported authorization scheme")
	}
	if a.maxTokenLength > 0 && len(fields[1]) > a.maxTokenLength {
		return "", errors.New("token too long")
	}
	return fields[1], nil
}
