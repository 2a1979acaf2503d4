// ABOUTME: jwt.SigningMethod adapter for Dilithium3 over raw key buffers
// ABOUTME: Registered with golang-jwt under the "Dilithium3" algorithm name

package dilithium

import (
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod implements jwt.SigningMethod for Dilithium3.
// Sign expects the raw private key ([]byte); Verify expects the raw public key.
type SigningMethod struct{}

// SigningMethodDilithium3 is the shared Dilithium3 signing method.
var SigningMethodDilithium3 = &SigningMethod{}

func init() {
	jwt.RegisterSigningMethod(Algorithm, func() jwt.SigningMethod {
		return SigningMethodDilithium3
	})
}

// Alg returns the algorithm name.
func (m *SigningMethod) Alg() string {
	return Algorithm
}

// Sign signs signingString with a raw private key.
func (m *SigningMethod) Sign(signingString string, key interface{}) ([]byte, error) {
	raw, ok := key.([]byte)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}
	return Sign([]byte(signingString), raw)
}

// Verify checks sig over signingString with a raw public key. A signature that
// does not validate yields jwt.ErrSignatureInvalid; size violations are
// returned unchanged.
func (m *SigningMethod) Verify(signingString string, sig []byte, key interface{}) error {
	raw, ok := key.([]byte)
	if !ok {
		return jwt.ErrInvalidKeyType
	}

	valid, err := Verify([]byte(signingString), sig, raw)
	if err != nil {
		return err
	}
	if !valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
