// ABOUTME: Dilithium3 sign, verify and key generation over raw byte buffers
// ABOUTME: Uses circl's mode3 implementation with a fresh key object per call

package dilithium

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Algorithm is the identifier written into token headers.
const Algorithm = "Dilithium3"

// Sign produces a detached signature over msg using a raw private key.
func Sign(msg, rawPrivateKey []byte) ([]byte, error) {
	parts, err := DecomposePrivateKey(rawPrivateKey)
	if err != nil {
		return nil, newKeyError("sign", err)
	}

	sk, err := parts.signingKey()
	if err != nil {
		return nil, newKeyError("sign", err)
	}

	sig := make([]byte, SignatureSize)
	mode3.SignTo(sk, msg, sig)
	return sig, nil
}

// Verify reports whether sig is a valid signature of msg under rawPublicKey.
// A structurally valid signature that does not match returns (false, nil);
// size violations return ErrInvalidKeyLength or ErrMalformedSignature.
func Verify(msg, sig, rawPublicKey []byte) (bool, error) {
	if len(rawPublicKey) != PublicKeySize {
		return false, newKeyError("verify", fmt.Errorf("%w: public key is %d bytes, want %d", ErrInvalidKeyLength, len(rawPublicKey), PublicKeySize))
	}
	if len(sig) != SignatureSize {
		return false, newKeyError("verify", fmt.Errorf("%w: signature is %d bytes, want %d", ErrMalformedSignature, len(sig), SignatureSize))
	}

	var pk mode3.PublicKey
	if err := pk.UnmarshalBinary(rawPublicKey); err != nil {
		return false, newKeyError("verify", fmt.Errorf("%w: %v", ErrInvalidKeyLength, err))
	}

	return mode3.Verify(&pk, msg, sig), nil
}

// GenerateKey creates a key pair and returns the raw public key and the raw
// private key in the flat external encoding. A nil reader uses crypto/rand.
func GenerateKey(r io.Reader) (publicKey, privateKey []byte, err error) {
	if r == nil {
		r = rand.Reader
	}

	pk, sk, err := mode3.GenerateKey(r)
	if err != nil {
		return nil, nil, newKeyError("generate", err)
	}

	publicKey, err = pk.MarshalBinary()
	if err != nil {
		return nil, nil, newKeyError("generate", err)
	}
	packed, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, newKeyError("generate", err)
	}
	if len(packed) != packedSigningKeySize {
		return nil, nil, newKeyError("generate", fmt.Errorf("%w: packed signing key is %d bytes", ErrInvalidKeyLength, len(packed)))
	}

	// The trailing segment carries the leading bytes of the packed t1 vector,
	// which follows rho in the public key.
	privateKey = make([]byte, 0, PrivateKeySize)
	privateKey = append(privateKey, packed...)
	privateKey = append(privateKey, publicKey[RhoSize:RhoSize+T1Size]...)

	return publicKey, privateKey, nil
}
