// Package dilithium wraps the Dilithium3 (CRYSTALS-Dilithium, NIST security
// level 3) signature primitive behind byte-oriented operations with explicit,
// checked key layouts.
//
// # Key Layout
//
// A private key travels as one flat buffer of exactly PrivateKeySize (4864)
// bytes. The buffer is sliced positionally into the components the primitive
// needs:
//
//	rho  [0:32]      public seed
//	key  [32:64]     signing seed
//	tr   [64:96]     public key hash
//	s1   [96:736]    secret vector
//	s2   [736:1504]  secret vector
//	t0   [1504:4000] low rounding bits
//	t1   [4000:4864] high rounding bits (carried, not consumed by the signer)
//
// Any other length is rejected with ErrInvalidKeyLength. Public keys are
// consumed whole and must be exactly PublicKeySize bytes.
//
// # Signing and Verification
//
//	sig, err := dilithium.Sign(msg, rawPrivateKey)
//	ok, err := dilithium.Verify(msg, sig, rawPublicKey)
//
// Verify returns (false, nil) for a well-formed signature that does not
// validate, and an error only when the key or signature has the wrong size.
// Every call builds fresh key objects; nothing is shared between calls.
//
// # JWT Interop
//
// SigningMethodDilithium3 implements jwt.SigningMethod from
// github.com/golang-jwt/jwt/v5 and is registered under the "Dilithium3"
// algorithm name. Keys are the raw byte buffers described above.
package dilithium
