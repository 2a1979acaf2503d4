// ABOUTME: Positional decomposition of flat Dilithium3 private key buffers
// ABOUTME: Splits the 4864-byte external encoding into the primitive's named components

package dilithium

import (
	"encoding/hex"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/blake2b"
)

// Component sizes of the external private key encoding.
const (
	RhoSize = 32
	KeySize = 32
	TRSize  = 32
	S1Size  = 640
	S2Size  = 768
	T0Size  = 2496
	T1Size  = 864

	// PrivateKeySize is the exact length of an external private key buffer.
	PrivateKeySize = RhoSize + KeySize + TRSize + S1Size + S2Size + T0Size + T1Size

	// packedSigningKeySize covers rho..t0, the part the signer unpacks.
	packedSigningKeySize = PrivateKeySize - T1Size
)

// Sizes fixed by the level 3 parameter set.
const (
	PublicKeySize = mode3.PublicKeySize
	SignatureSize = mode3.SignatureSize
)

// PrivateKeyParts holds the named components of a private key.
type PrivateKeyParts struct {
	Rho []byte
	Key []byte
	TR  []byte
	S1  []byte
	S2  []byte
	T0  []byte
	T1  []byte
}

// DecomposePrivateKey slices a raw private key into its components at fixed
// offsets. The returned slices are copies of the input.
func DecomposePrivateKey(raw []byte) (*PrivateKeyParts, error) {
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key is %d bytes, want %d", ErrInvalidKeyLength, len(raw), PrivateKeySize)
	}

	off := 0
	next := func(n int) []byte {
		part := make([]byte, n)
		copy(part, raw[off:off+n])
		off += n
		return part
	}

	return &PrivateKeyParts{
		Rho: next(RhoSize),
		Key: next(KeySize),
		TR:  next(TRSize),
		S1:  next(S1Size),
		S2:  next(S2Size),
		T0:  next(T0Size),
		T1:  next(T1Size),
	}, nil
}

// Bytes reassembles the components into the flat external encoding.
func (p *PrivateKeyParts) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize)
	out = append(out, p.Rho...)
	out = append(out, p.Key...)
	out = append(out, p.TR...)
	out = append(out, p.S1...)
	out = append(out, p.S2...)
	out = append(out, p.T0...)
	out = append(out, p.T1...)
	return out
}

// signingKey builds the primitive's private key from the named components.
func (p *PrivateKeyParts) signingKey() (*mode3.PrivateKey, error) {
	packed := make([]byte, 0, packedSigningKeySize)
	packed = append(packed, p.Rho...)
	packed = append(packed, p.Key...)
	packed = append(packed, p.TR...)
	packed = append(packed, p.S1...)
	packed = append(packed, p.S2...)
	packed = append(packed, p.T0...)

	var sk mode3.PrivateKey
	if err := sk.UnmarshalBinary(packed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyLength, err)
	}
	return &sk, nil
}

// Fingerprint returns the lowercase hex BLAKE2b-256 digest of a public key.
// It is meant for display and logs, not for trust decisions.
func Fingerprint(publicKey []byte) string {
	sum := blake2b.Sum256(publicKey)
	return hex.EncodeToString(sum[:])
}
