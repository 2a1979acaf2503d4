// ABOUTME: Sentinel errors for Dilithium3 key and signature handling
// ABOUTME: KeyError attaches the failing operation to an underlying error

package dilithium

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyLength indicates a private or public key buffer has the wrong size.
	ErrInvalidKeyLength = errors.New("dilithium: invalid key length")

	// ErrMalformedSignature indicates a signature is not decodable or has the wrong size.
	ErrMalformedSignature = errors.New("dilithium: malformed signature")
)

// KeyError wraps a key handling error with the operation that failed.
type KeyError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("dilithium %s: %v", e.Op, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func newKeyError(op string, err error) *KeyError {
	return &KeyError{Op: op, Err: err}
}
