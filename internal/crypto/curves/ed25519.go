package curves

import (
	"fmt"
	"io"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/smallyu/go-ecckit/internal/crypto/modular"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// Ed25519Group is the prime-order subgroup of the curve described by
// Ed25519Params. The group law is delegated to filippo.io/edwards25519; the
// affine short Weierstrass engine in this package does not cover Edwards
// curves.
type Ed25519Group struct{}

func (Ed25519Group) Name() Name { return NameEd25519 }

// Order returns l = 2^252 + 27742317777372353535851937790883648493.
func (Ed25519Group) Order() *big.Int {
	return new(big.Int).Set(Ed25519Params().N)
}

// NewScalar draws a uniformly random scalar from rand.
func (Ed25519Group) NewScalar(rand io.Reader) (*Ed25519Scalar, error) {
	var b [64]byte
	if _, err := io.ReadFull(rand, b[:]); err != nil {
		return nil, fmt.Errorf("curves: reading ed25519 scalar: %w", err)
	}

	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		return nil, err
	}
	return &Ed25519Scalar{s: s}, nil
}

// ScalarFromBigInt reduces n modulo l and converts it to a scalar.
func (g Ed25519Group) ScalarFromBigInt(n *big.Int) (*Ed25519Scalar, error) {
	n = modular.Mod(n, g.Order())

	// edwards25519 scalars are little-endian.
	var buf [32]byte
	n.FillBytes(buf[:])
	reverse(buf[:])

	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		return nil, err
	}
	return &Ed25519Scalar{s: s}, nil
}

// BasePoint returns the standard generator.
func (Ed25519Group) BasePoint() *Ed25519Point {
	return &Ed25519Point{p: edwards25519.NewGeneratorPoint()}
}

// Identity returns the neutral element.
func (Ed25519Group) Identity() *Ed25519Point {
	return &Ed25519Point{p: edwards25519.NewIdentityPoint()}
}

// DecodePoint parses the 32-byte RFC 8032 encoding.
func (Ed25519Group) DecodePoint(b []byte) (*Ed25519Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, "curves: invalid ed25519 point encoding")
	}
	return &Ed25519Point{p: p}, nil
}

// ScalarBaseMultBytes returns the encoding of k·B.
func (g Ed25519Group) ScalarBaseMultBytes(k *big.Int) ([]byte, error) {
	s, err := g.ScalarFromBigInt(k)
	if err != nil {
		return nil, err
	}
	return edwards25519.NewIdentityPoint().ScalarBaseMult(s.s).Bytes(), nil
}

// Ed25519Scalar is an integer modulo l.
type Ed25519Scalar struct {
	s *edwards25519.Scalar
}

// Bytes returns the 32-byte little-endian encoding.
func (s *Ed25519Scalar) Bytes() []byte {
	return s.s.Bytes()
}

func (s *Ed25519Scalar) BigInt() *big.Int {
	b := s.s.Bytes()
	reverse(b)
	return new(big.Int).SetBytes(b)
}

func (s *Ed25519Scalar) Add(o *Ed25519Scalar) *Ed25519Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Add(s.s, o.s)}
}

func (s *Ed25519Scalar) Mul(o *Ed25519Scalar) *Ed25519Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Multiply(s.s, o.s)}
}

func (s *Ed25519Scalar) Invert() *Ed25519Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Invert(s.s)}
}

// Ed25519Point is an element of the edwards25519 group.
type Ed25519Point struct {
	p *edwards25519.Point
}

// Bytes returns the 32-byte RFC 8032 encoding.
func (p *Ed25519Point) Bytes() []byte {
	return p.p.Bytes()
}

func (p *Ed25519Point) Add(o *Ed25519Point) *Ed25519Point {
	return &Ed25519Point{p: edwards25519.NewIdentityPoint().Add(p.p, o.p)}
}

func (p *Ed25519Point) Negate() *Ed25519Point {
	return &Ed25519Point{p: edwards25519.NewIdentityPoint().Negate(p.p)}
}

func (p *Ed25519Point) ScalarMult(s *Ed25519Scalar) *Ed25519Point {
	return &Ed25519Point{p: edwards25519.NewIdentityPoint().ScalarMult(s.s, p.p)}
}

func (p *Ed25519Point) Equal(o *Ed25519Point) bool {
	return p.p.Equal(o.p) == 1
}

// Affine recovers (x, y) on ax² + y² = 1 + dx²y² from the compressed encoding.
// x² = (1 - y²) / (a - dy²) and the top bit of the encoding selects the root.
func (p *Ed25519Point) Affine() (x, y *big.Int, err error) {
	params := Ed25519Params()
	f := modular.NewField(params.P)

	enc := p.p.Bytes()
	sign := uint(enc[31] >> 7)
	enc[31] &= 0x7f
	reverse(enc)
	y = new(big.Int).SetBytes(enc)

	y2 := f.Square(y)
	x2, err := f.Div(f.Sub(big.NewInt(1), y2), f.Sub(params.A, f.Mul(params.B, y2)))
	if err != nil {
		return nil, nil, err
	}
	for _, r := range f.Sqrt(x2) {
		if r.Bit(0) == sign {
			return r, y, nil
		}
	}
	return nil, nil, ErrNoSquareRoot
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
