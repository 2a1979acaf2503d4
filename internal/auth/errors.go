// ABOUTME: Typed authentication failures returned by the Authenticator
// ABOUTME: Each failure carries a FailureKind that callers map to transport status

package auth

import (
	"errors"
)

// FailureKind names the step at which authentication stopped.
type FailureKind string

const (
	KindHeaderMissing    FailureKind = "header_missing"
	KindMalformedHeader  FailureKind = "malformed_header"
	KindMalformedToken   FailureKind = "malformed_token"
	KindInvalidSubject   FailureKind = "invalid_subject"
	KindUserNotFound     FailureKind = "user_not_found"
	KindStoreUnavailable FailureKind = "store_unavailable"
	KindSignatureInvalid FailureKind = "signature_invalid"
)

// Sentinels for use with errors.Is. Any *Error with the same Kind matches.
var (
	ErrHeaderMissing    = &Error{Kind: KindHeaderMissing}
	ErrMalformedHeader  = &Error{Kind: KindMalformedHeader}
	ErrMalformedToken   = &Error{Kind: KindMalformedToken}
	ErrInvalidSubject   = &Error{Kind: KindInvalidSubject}
	ErrUserNotFound     = &Error{Kind: KindUserNotFound}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrSignatureInvalid = &Error{Kind: KindSignatureInvalid}
)

// Error is a terminal authentication failure.
type Error struct {
	Kind FailureKind
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth: " + string(e.Kind)
	}
	return "auth: " + string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func fail(kind FailureKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the FailureKind of err, or "" if err is not an auth failure.
func KindOf(err error) FailureKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
