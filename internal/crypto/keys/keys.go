// Package keys implements private/public key pairs over the short
// Weierstrass curves in package curves.
package keys

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// maxReadFailures bounds how many consecutive reader errors GeneratePrivateKey
// tolerates before giving up.
const maxReadFailures = 16

var (
	ErrScalarRange = ecc.NewError(ecc.ErrInvalidScalarRange, "keys: private key must satisfy 1 <= d < N")
	ErrKeyLength   = ecc.NewError(ecc.ErrMalformedEncoding, "keys: private key is empty or wider than the curve order")
	ErrNilCurve    = errors.New("keys: curve is nil")
)

// PrivateKey is a scalar d in [1, N) bound to a curve.
type PrivateKey struct {
	curve *curves.Curve
	d     *big.Int
}

// GeneratePrivateKey draws a uniformly random private key from rand by
// rejection sampling. Each candidate uses as many bytes as N-1 needs.
//
// A failed read is retried. After 16 consecutive read failures the last
// reader error is returned wrapped; any successful read resets the count.
func GeneratePrivateKey(curve *curves.Curve, rand io.Reader) (*PrivateKey, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}
	n := curve.N()
	size := (new(big.Int).Sub(n, big.NewInt(1)).BitLen() + 7) / 8
	buf := make([]byte, size)

	failures := 0
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			failures++
			if failures >= maxReadFailures {
				return nil, fmt.Errorf("keys: reading random bytes: %w", err)
			}
			continue
		}
		failures = 0

		d := new(big.Int).SetBytes(buf)
		if curve.IsScalar(d) {
			return &PrivateKey{curve: curve, d: d}, nil
		}
	}
}

// NewPrivateKey wraps d after checking 1 <= d < N.
func NewPrivateKey(curve *curves.Curve, d *big.Int) (*PrivateKey, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}
	if d == nil || !curve.IsScalar(d) {
		return nil, ErrScalarRange
	}
	return &PrivateKey{curve: curve, d: new(big.Int).Set(d)}, nil
}

// PrivateKeyFromBytes parses a big-endian scalar of at most the curve's byte
// width. Shorter input is treated as left-padded with zeros, so "01" is d = 1.
func PrivateKeyFromBytes(curve *curves.Curve, b []byte) (*PrivateKey, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}
	if len(b) == 0 || len(b) > curve.ByteSize() {
		return nil, ErrKeyLength
	}
	return NewPrivateKey(curve, new(big.Int).SetBytes(b))
}

// PrivateKeyFromHex parses a hex-encoded private key.
func PrivateKeyFromHex(curve *curves.Curve, s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, fmt.Sprintf("keys: invalid hex private key: %v", err))
	}
	return PrivateKeyFromBytes(curve, b)
}

// PrivateKeyFromBase64 parses a standard base64-encoded private key.
func PrivateKeyFromBase64(curve *curves.Curve, s string) (*PrivateKey, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, fmt.Sprintf("keys: invalid base64 private key: %v", err))
	}
	return PrivateKeyFromBytes(curve, b)
}

// Curve returns the curve the key belongs to.
func (k *PrivateKey) Curve() *curves.Curve { return k.curve }

// D returns a copy of the secret scalar.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Bytes returns d as a fixed-width big-endian byte slice.
func (k *PrivateKey) Bytes() []byte {
	return k.d.FillBytes(make([]byte, k.curve.ByteSize()))
}

func (k *PrivateKey) Hex() string { return hex.EncodeToString(k.Bytes()) }

func (k *PrivateKey) Base64() string { return base64.StdEncoding.EncodeToString(k.Bytes()) }

// PublicKey derives d·G.
func (k *PrivateKey) PublicKey() *PublicKey {
	return NewPublicKey(k)
}

// ToSecp256k1 converts the key into a decred private key. Only keys on
// secp256k1 can be converted.
func (k *PrivateKey) ToSecp256k1() (*secp256k1.PrivateKey, error) {
	if k.curve.Name() != curves.NameSecp256k1 {
		return nil, ecc.NewError(ecc.ErrUnsupportedCurve,
			fmt.Sprintf("keys: cannot convert a %s key to secp256k1", k.curve.Name()))
	}
	return secp256k1.PrivKeyFromBytes(k.Bytes()), nil
}

// PublicKey is a non-infinity point on a curve.
type PublicKey struct {
	point *curves.Point
}

// NewPublicKey computes the public key belonging to priv.
func NewPublicKey(priv *PrivateKey) *PublicKey {
	return &PublicKey{point: priv.curve.ScalarBaseMult(priv.d)}
}

// PublicKeyFromPoint wraps an existing curve point.
func PublicKeyFromPoint(p *curves.Point) (*PublicKey, error) {
	if p == nil || p.IsInfinity() {
		return nil, curves.ErrEncodeInfinity
	}
	if !p.IsOnCurve() {
		return nil, curves.ErrNotOnCurve
	}
	return &PublicKey{point: p}, nil
}

// PublicKeyFromBytes decodes a compressed (33 byte) or uncompressed (65 byte)
// public key.
func PublicKeyFromBytes(curve *curves.Curve, b []byte) (*PublicKey, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}
	p, err := curve.DecodePoint(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{point: p}, nil
}

// PublicKeyFromHex decodes a hex-encoded public key.
func PublicKeyFromHex(curve *curves.Curve, s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, fmt.Sprintf("keys: invalid hex public key: %v", err))
	}
	return PublicKeyFromBytes(curve, b)
}

func (k *PublicKey) Curve() *curves.Curve { return k.point.Curve() }

// Point returns the underlying curve point.
func (k *PublicKey) Point() *curves.Point { return k.point }

func (k *PublicKey) X() *big.Int { return k.point.X() }

func (k *PublicKey) Y() *big.Int { return k.point.Y() }

// SerializeCompressed returns the 33 byte SEC 1 compressed form.
func (k *PublicKey) SerializeCompressed() []byte {
	return k.mustEncode(true)
}

// SerializeUncompressed returns the 65 byte SEC 1 uncompressed form.
func (k *PublicKey) SerializeUncompressed() []byte {
	return k.mustEncode(false)
}

// mustEncode panics only if the key holds the point at infinity, which no
// constructor allows.
func (k *PublicKey) mustEncode(compressed bool) []byte {
	b, err := k.point.Encode(compressed)
	if err != nil {
		panic(err)
	}
	return b
}

func (k *PublicKey) Hex() string { return hex.EncodeToString(k.SerializeCompressed()) }

func (k *PublicKey) Equal(o *PublicKey) bool {
	return o != nil && k.point.Equal(o.point)
}

// KeyPair holds a private key together with its public key.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// GenerateKeyPair draws a fresh private key from rand and derives its public
// key.
func GenerateKeyPair(curve *curves.Curve, rand io.Reader) (*KeyPair, error) {
	priv, err := GeneratePrivateKey(curve, rand)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(priv), nil
}

// NewKeyPair derives the public key for priv.
func NewKeyPair(priv *PrivateKey) *KeyPair {
	return &KeyPair{Private: priv, Public: priv.PublicKey()}
}
