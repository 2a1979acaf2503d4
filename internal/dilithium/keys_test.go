// ABOUTME: Tests for private key decomposition and fingerprints
// ABOUTME: Covers fixed offsets, length enforcement, and copy semantics

package dilithium

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layeredKey returns a private key buffer where every byte holds the index of
// the component it belongs to.
func layeredKey() []byte {
	sizes := []int{RhoSize, KeySize, TRSize, S1Size, S2Size, T0Size, T1Size}
	raw := make([]byte, 0, PrivateKeySize)
	for i, n := range sizes {
		raw = append(raw, bytes.Repeat([]byte{byte(i + 1)}, n)...)
	}
	return raw
}

func TestPrivateKeySize(t *testing.T) {
	assert.Equal(t, 4864, PrivateKeySize)
	assert.Equal(t, 4000, packedSigningKeySize)
}

func TestDecomposePrivateKey_Offsets(t *testing.T) {
	parts, err := DecomposePrivateKey(layeredKey())
	require.NoError(t, err)

	tests := []struct {
		name string
		part []byte
		size int
		fill byte
	}{
		{"rho", parts.Rho, 32, 1},
		{"key", parts.Key, 32, 2},
		{"tr", parts.TR, 32, 3},
		{"s1", parts.S1, 640, 4},
		{"s2", parts.S2, 768, 5},
		{"t0", parts.T0, 2496, 6},
		{"t1", parts.T1, 864, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.part, tt.size)
			assert.Equal(t, bytes.Repeat([]byte{tt.fill}, tt.size), tt.part)
		})
	}
}

func TestDecomposePrivateKey_InvalidLength(t *testing.T) {
	lengths := []int{0, 1, PublicKeySize, packedSigningKeySize, PrivateKeySize - 1, PrivateKeySize + 1, 2 * PrivateKeySize}

	for _, n := range lengths {
		parts, err := DecomposePrivateKey(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidKeyLength, "length %d", n)
		assert.Nil(t, parts, "length %d", n)
	}
}

func TestDecomposePrivateKey_CopiesInput(t *testing.T) {
	raw := layeredKey()
	parts, err := DecomposePrivateKey(raw)
	require.NoError(t, err)

	raw[0] = 0xFF
	raw[PrivateKeySize-1] = 0xFF

	assert.Equal(t, byte(1), parts.Rho[0])
	assert.Equal(t, byte(7), parts.T1[T1Size-1])
}

func TestPrivateKeyParts_BytesRoundTrip(t *testing.T) {
	raw := layeredKey()
	parts, err := DecomposePrivateKey(raw)
	require.NoError(t, err)

	assert.Equal(t, raw, parts.Bytes())
}

func TestFingerprint(t *testing.T) {
	pub, _, err := GenerateKey(nil)
	require.NoError(t, err)
	other, _, err := GenerateKey(nil)
	require.NoError(t, err)

	fp := Fingerprint(pub)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(pub))
	assert.NotEqual(t, fp, Fingerprint(other))
}
