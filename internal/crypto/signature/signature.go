// Package signature holds the (r, s) signature value shared by the ECDSA and
// Schnorr signers, together with its DER and raw hex encodings and the
// Message type that carries a digest into a signer.
package signature

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// scalarSize is the fixed width of r and s in the raw encoding.
const scalarSize = 32

// Signature is a pair of positive integers. The signers guarantee that
// 0 < S < N; R is below N for ECDSA and a challenge hash for Schnorr.
type Signature struct {
	R *big.Int
	S *big.Int
}

// NewSignature copies r and s into a new Signature.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}
}

// IsLowS reports whether S <= (n-1)/2.
func (sig *Signature) IsLowS(n *big.Int) bool {
	return sig.S.Cmp(halfOrder(n)) <= 0
}

// NormalizeLowS returns a signature whose S is replaced by n-S when S is in
// the upper half of the group. Both forms verify, so this only removes the
// malleability.
func (sig *Signature) NormalizeLowS(n *big.Int) *Signature {
	if sig.IsLowS(n) {
		return NewSignature(sig.R, sig.S)
	}
	return &Signature{R: new(big.Int).Set(sig.R), S: new(big.Int).Sub(n, sig.S)}
}

func halfOrder(n *big.Int) *big.Int {
	h := new(big.Int).Sub(n, big.NewInt(1))
	return h.Rsh(h, 1)
}

// Equal reports whether both components match.
func (sig *Signature) Equal(o *Signature) bool {
	return o != nil && sig.R.Cmp(o.R) == 0 && sig.S.Cmp(o.S) == 0
}

// Bytes returns r || s, each left padded to 32 bytes.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 2*scalarSize)
	sig.R.FillBytes(out[:scalarSize])
	sig.S.FillBytes(out[scalarSize:])
	return out
}

// Hex returns the 128 character raw hex form r || s.
func (sig *Signature) Hex() string {
	return hex.EncodeToString(sig.Bytes())
}

func (sig *Signature) String() string {
	return sig.Hex()
}

// FromBytes parses the 64 byte raw form r || s.
func FromBytes(b []byte) (*Signature, error) {
	if len(b) != 2*scalarSize {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding,
			fmt.Sprintf("signature: raw signature must be %d bytes, got %d", 2*scalarSize, len(b)))
	}
	r := new(big.Int).SetBytes(b[:scalarSize])
	s := new(big.Int).SetBytes(b[scalarSize:])
	if r.Sign() == 0 || s.Sign() == 0 {
		return nil, ecc.NewError(ecc.ErrInvalidScalarRange, "signature: r and s must be positive")
	}
	return &Signature{R: r, S: s}, nil
}

// FromHex parses the 128 character raw hex form.
func FromHex(s string) (*Signature, error) {
	if len(s) != 4*scalarSize {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding,
			fmt.Sprintf("signature: raw hex signature must be %d characters, got %d", 4*scalarSize, len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, fmt.Sprintf("signature: invalid hex: %v", err))
	}
	return FromBytes(b)
}
