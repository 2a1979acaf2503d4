// ABOUTME: Three-segment self-signed token encoding, parsing and signing
// ABOUTME: Header and body are base64 JSON objects; the signature is detached

// Package token implements the wire format of client-signed authentication
// tokens:
//
//	base64(JSON{"alg","typ"}) "." base64(JSON{"sub"}) "." base64(signature)
//
// All segments use standard, padded base64. The first two segments joined by a
// period form the signing input. The encoding resembles a JWT but is not one:
// the header and body carry only the fields shown above and the signature is
// produced by the client's own Dilithium3 key.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2389/pqlab/internal/dilithium"
)

const (
	// AlgDilithium3 is the only algorithm identifier this system emits.
	AlgDilithium3 = dilithium.Algorithm

	// TypJWT labels the token type for interoperability only.
	TypJWT = "JWT"

	separator = "."
)

// ErrMalformedToken is returned when a wire token cannot be parsed.
var ErrMalformedToken = errors.New("malformed token")

// Token is a parsed or freshly built authentication token.
type Token struct {
	Alg string
	Typ string
	Sub string
	Sig string // base64 signature, decoded only at verification time
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type body struct {
	Sub string `json:"sub"`
}

// New returns an unsigned token for the given subject.
func New(sub string) *Token {
	return &Token{
		Alg: AlgDilithium3,
		Typ: TypJWT,
		Sub: sub,
	}
}

// EncodedHeader returns the first wire segment.
func (t *Token) EncodedHeader() string {
	return encodeSegment(header{Alg: t.Alg, Typ: t.Typ})
}

// EncodedBody returns the second wire segment.
func (t *Token) EncodedBody() string {
	return encodeSegment(body{Sub: t.Sub})
}

// SigningInput returns the exact bytes that are signed and verified.
func (t *Token) SigningInput() []byte {
	return []byte(t.EncodedHeader() + separator + t.EncodedBody())
}

// String returns the wire representation.
func (t *Token) String() string {
	return string(t.SigningInput()) + separator + t.Sig
}

// Sign signs the token with a raw private key and stores the encoded signature.
func (t *Token) Sign(rawPrivateKey []byte) error {
	sig, err := dilithium.SigningMethodDilithium3.Sign(string(t.SigningInput()), rawPrivateKey)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	t.Sig = base64.StdEncoding.EncodeToString(sig)
	return nil
}

// SignatureBytes decodes the signature segment.
func (t *Token) SignatureBytes() ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(t.Sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dilithium.ErrMalformedSignature, err)
	}
	return sig, nil
}

// Verify reports whether the token's signature validates under rawPublicKey.
// The signing input is recomputed from Alg, Typ and Sub. A mismatching
// signature returns (false, nil); undecodable or wrongly sized signatures and
// keys return an error.
func (t *Token) Verify(rawPublicKey []byte) (bool, error) {
	sig, err := t.SignatureBytes()
	if err != nil {
		return false, err
	}

	err = dilithium.SigningMethodDilithium3.Verify(string(t.SigningInput()), sig, rawPublicKey)
	if errors.Is(err, jwt.ErrSignatureInvalid) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SignedString builds and signs a token for sub, returning the wire string.
func SignedString(sub string, rawPrivateKey []byte) (string, error) {
	t := New(sub)
	if err := t.Sign(rawPrivateKey); err != nil {
		return "", err
	}
	return t.String(), nil
}

// Parse decodes a wire token. The header must hold exactly "alg" and "typ" and
// the body exactly "sub", all as strings. The signature segment is kept as-is.
func Parse(wire string) (*Token, error) {
	segments := strings.Split(wire, separator)
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(segments))
	}

	h, err := decodeSegment(segments[0], "alg", "typ")
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}

	b, err := decodeSegment(segments[1], "sub")
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrMalformedToken, err)
	}

	return &Token{
		Alg: h["alg"],
		Typ: h["typ"],
		Sub: b["sub"],
		Sig: segments[2],
	}, nil
}

// encodeSegment writes v as compact JSON without HTML escaping, so <, > and &
// appear literally as most client JSON libraries emit them.
func encodeSegment(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode cannot fail for structs of plain strings.
	_ = enc.Encode(v)
	return base64.StdEncoding.EncodeToString(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// decodeSegment decodes a base64 JSON object whose key set must equal keys
// exactly and whose values must all be strings.
func decodeSegment(segment string, keys ...string) (map[string]string, error) {
	data, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, errors.New("invalid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	if raw == nil {
		return nil, errors.New("not a JSON object")
	}
	if len(raw) != len(keys) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(keys), len(raw))
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("missing %q", key)
		}
		var s string
		if bytes.Equal(value, []byte("null")) {
			return nil, fmt.Errorf("field %q is null", key)
		}
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("field %q is not a string", key)
		}
		out[key] = s
	}
	return out, nil
}
