// ABOUTME: Tests for the authentication decision procedure
// ABOUTME: Covers every failure kind, step ordering, and the successful path

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/pqlab/internal/dilithium"
	"github.com/2389/pqlab/internal/store"
	"github.com/2389/pqlab/internal/token"
)

const knownSubject = "c8688cdc-e4f4-447a-b156-7e8ccd402ce8"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingLookup wraps a UserLookup and counts calls.
type recordingLookup struct {
	mu    sync.Mutex
	next  UserLookup
	err   error
	calls []uuid.UUID
}

func (r *recordingLookup) GetUserByID(ctx context.Context, id uuid.UUID) (*store.User, error) {
	r.mu.Lock()
	r.calls = append(r.calls, id)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.next.GetUserByID(ctx, id)
}

type fixture struct {
	users *store.MockStore
	pub   []byte
	priv  []byte
	user  *store.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub, priv, err := dilithium.GenerateKey(nil)
	require.NoError(t, err)

	users := store.NewMockStore()
	user := &store.User{
		ID:             uuid.MustParse(knownSubject),
		Email:          "alice@example.com",
		DisplayName:    "Alice",
		PublicKey:      pub,
		KeyFingerprint: dilithium.Fingerprint(pub),
	}
	require.NoError(t, users.CreateUser(context.Background(), user))

	return &fixture{users: users, pub: pub, priv: priv, user: user}
}

func (f *fixture) bearer(t *testing.T, sub string) *string {
	t.Helper()
	wire, err := token.SignedString(sub, f.priv)
	require.NoError(t, err)
	h := "Bearer " + wire
	return &h
}

func strPtr(s string) *string { return &s }

func TestAuthenticate_Success(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.users, WithLogger(testLogger()))

	id, err := a.Authenticate(context.Background(), f.bearer(t, knownSubject))
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "Alice", id.DisplayName)
}

func TestAuthenticate_HeaderMissing(t *testing.T) {
	f := newFixture(t)
	lookup := &recordingLookup{next: f.users}
	a := NewAuthenticator(lookup, WithLogger(testLogger()))

	id, err := a.Authenticate(context.Background(), nil)
	assert.Nil(t, id)
	assert.ErrorIs(t, err, ErrHeaderMissing)
	assert.Equal(t, KindHeaderMissing, KindOf(err))
	assert.Empty(t, lookup.calls)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	f := newFixture(t)
	wire, err := token.SignedString(knownSubject, f.priv)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"token without scheme", wire},
		{"three fields", "Bearer " + wire + " extra"},
		{"wrong scheme", "Basic " + wire},
		{"scheme only", "Bearer"},
	}

	a := NewAuthenticator(f.users, WithLogger(testLogger()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), strPtr(tt.header))
			assert.ErrorIs(t, err, ErrMalformedHeader)
		})
	}
}

func TestAuthenticate_BearerSchemeCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	wire, err := token.SignedString(knownSubject, f.priv)
	require.NoError(t, err)

	a := NewAuthenticator(f.users, WithLogger(testLogger()))
	for _, scheme := range []string{"bearer", "BEARER", "Bearer"} {
		_, err := a.Authenticate(context.Background(), strPtr(scheme+"  "+wire))
		assert.NoError(t, err, scheme)
	}
}

func TestAuthenticate_LenientScheme(t *testing.T) {
	f := newFixture(t)
	wire, err := token.SignedString(knownSubject, f.priv)
	require.NoError(t, err)

	a := NewAuthenticator(f.users, WithLogger(testLogger()), WithRequireBearer(false))
	_, err = a.Authenticate(context.Background(), strPtr("Token "+wire))
	assert.NoError(t, err)

	_, err = a.Authenticate(context.Background(), strPtr(wire))
	assert.ErrorIs(t, err, ErrMalformedHeader, "two fields are still required")
}

func TestAuthenticate_MaxTokenLength(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.users, WithLogger(testLogger()), WithMaxTokenLength(100))

	_, err := a.Authenticate(context.Background(), f.bearer(t, knownSubject))
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.users, WithLogger(testLogger()))

	for _, wire := range []string{"abc", "a.b", "a.b.c.d", "!!!.!!!.sig"} {
		_, err := a.Authenticate(context.Background(), strPtr("Bearer "+wire))
		assert.ErrorIs(t, err, ErrMalformedToken, wire)
		assert.ErrorIs(t, err, token.ErrMalformedToken, "cause should stay visible")
	}
}

func TestAuthenticate_InvalidSubject(t *testing.T) {
	f := newFixture(t)
	lookup := &recordingLookup{next: f.users}
	a := NewAuthenticator(lookup, WithLogger(testLogger()))

	_, err := a.Authenticate(context.Background(), f.bearer(t, "not-a-uuid"))
	assert.ErrorIs(t, err, ErrInvalidSubject)
	assert.Empty(t, lookup.calls, "store must not be consulted for an invalid subject")
}

func TestAuthenticate_UserNotFoundBeforeVerification(t *testing.T) {
	f := newFixture(t)
	lookup := &recordingLookup{next: f.users}
	a := NewAuthenticator(lookup, WithLogger(testLogger()))

	// The signature segment is not even base64. Reaching verification would
	// yield signature_invalid, so user_not_found proves the order.
	unknown := uuid.New()
	tok := token.New(unknown.String())
	tok.Sig = "%%%not-base64%%%"
	header := "Bearer " + tok.String()

	_, err := a.Authenticate(context.Background(), &header)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []uuid.UUID{unknown}, lookup.calls)
}

func TestAuthenticate_StoreUnavailable(t *testing.T) {
	f := newFixture(t)
	storeErr := errors.New("database is locked")
	lookup := &recordingLookup{next: f.users, err: storeErr}
	a := NewAuthenticator(lookup, WithLogger(testLogger()))

	_, err := a.Authenticate(context.Background(), f.bearer(t, knownSubject))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, storeErr, "store error should be wrapped, not masked")
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticate_SignatureFromOtherKey(t *testing.T) {
	f := newFixture(t)
	_, otherPriv, err := dilithium.GenerateKey(nil)
	require.NoError(t, err)

	wire, err := token.SignedString(knownSubject, otherPriv)
	require.NoError(t, err)

	a := NewAuthenticator(f.users, WithLogger(testLogger()))
	_, err = a.Authenticate(context.Background(), strPtr("Bearer "+wire))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestAuthenticate_SignatureStructuralErrors(t *testing.T) {
	f := newFixture(t)
	a := NewAuthenticator(f.users, WithLogger(testLogger()))

	t.Run("undecodable signature", func(t *testing.T) {
		tok := token.New(knownSubject)
		tok.Sig = "***"
		_, err := a.Authenticate(context.Background(), strPtr("Bearer "+tok.String()))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("short signature", func(t *testing.T) {
		tok := token.New(knownSubject)
		tok.Sig = "AAAA"
		_, err := a.Authenticate(context.Background(), strPtr("Bearer "+tok.String()))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
		assert.ErrorIs(t, err, dilithium.ErrMalformedSignature)
	})

	t.Run("stored key has wrong length", func(t *testing.T) {
		users := store.NewMockStore()
		require.NoError(t, users.CreateUser(context.Background(), &store.User{
			ID:        uuid.MustParse(knownSubject),
			Email:     "broken@example.com",
			PublicKey: []byte{1, 2, 3},
		}))
		a := NewAuthenticator(users, WithLogger(testLogger()))
		_, err := a.Authenticate(context.Background(), f.bearer(t, knownSubject))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
		assert.ErrorIs(t, err, dilithium.ErrInvalidKeyLength)
	})
}

func TestAuthenticate_TamperedBody(t *testing.T) {
	f := newFixture(t)
	wire, err := token.SignedString(knownSubject, f.priv)
	require.NoError(t, err)

	// Swap the body for another registered subject, keep the signature
	other := uuid.New()
	require.NoError(t, f.users.CreateUser(context.Background(), &store.User{
		ID:        other,
		Email:     "mallory@example.com",
		PublicKey: f.pub,
	}))
	parts := strings.Split(wire, ".")
	parts[1] = token.New(other.String()).EncodedBody()

	a := NewAuthenticator(f.users, WithLogger(testLogger()))
	_, err = a.Authenticate(context.Background(), strPtr("Bearer "+strings.Join(parts, ".")))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestError_Format(t *testing.T) {
	assert.Equal(t, "auth: header_missing", ErrHeaderMissing.Error())

	err := fail(KindMalformedHeader, errors.New("boom"))
	assert.Equal(t, "auth: malformed_header: boom", err.Error())
	assert.True(t, errors.Is(err, ErrMalformedHeader))
	assert.False(t, errors.Is(err, ErrMalformedToken))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUserNotFound, KindOf(fail(KindUserNotFound, nil)))
	assert.Equal(t, FailureKind(""), KindOf(errors.New("other")))
	assert.Equal(t, FailureKind(""), KindOf(nil))
}
