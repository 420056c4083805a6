package curves

import (
	"math/big"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const (
	prefixEven         = 0x02
	prefixOdd          = 0x03
	prefixUncompressed = 0x04
)

var (
	ErrInvalidLength   = ecc.NewError(ecc.ErrMalformedEncoding, "curves: invalid encoded point length")
	ErrInvalidPrefix   = ecc.NewError(ecc.ErrMalformedEncoding, "curves: invalid encoded point prefix")
	ErrCoordinateRange = ecc.NewError(ecc.ErrMalformedEncoding, "curves: coordinate is not below the field modulus")
	ErrEncodeInfinity  = ecc.NewError(ecc.ErrMalformedEncoding, "curves: the point at infinity has no encoding")
	ErrNoSquareRoot    = ecc.NewError(ecc.ErrNoSquareRoot, "curves: x coordinate has no matching y on the curve")
	ErrNotOnCurve      = ecc.NewError(ecc.ErrPointNotOnCurve, "curves: point is not on the curve")
)

// Encode serializes p in SEC 1 form. Coordinates always occupy the curve's
// full byte width: 33 bytes compressed, 65 bytes uncompressed for 256-bit
// curves.
func (p *Point) Encode(compressed bool) ([]byte, error) {
	if p.inf {
		return nil, ErrEncodeInfinity
	}
	size := p.curve.ByteSize()

	if compressed {
		out := make([]byte, 1+size)
		out[0] = prefixEven
		if p.y.Bit(0) == 1 {
			out[0] = prefixOdd
		}
		p.x.FillBytes(out[1:])
		return out, nil
	}

	out := make([]byte, 1+2*size)
	out[0] = prefixUncompressed
	p.x.FillBytes(out[1 : 1+size])
	p.y.FillBytes(out[1+size:])
	return out, nil
}

// DecodePoint parses a compressed or uncompressed encoding, choosing the form
// from the input length.
func (c *Curve) DecodePoint(b []byte) (*Point, error) {
	size := c.ByteSize()
	switch len(b) {
	case 1 + size:
		return c.DecodeCompressed(b)
	case 1 + 2*size:
		return c.DecodeUncompressed(b)
	}
	return nil, ErrInvalidLength
}

// DecodeCompressed parses prefix ∥ x and recovers y from the curve equation,
// picking the root whose parity matches the prefix.
func (c *Curve) DecodeCompressed(b []byte) (*Point, error) {
	size := c.ByteSize()
	if len(b) != 1+size {
		return nil, ErrInvalidLength
	}
	if b[0] != prefixEven && b[0] != prefixOdd {
		return nil, ErrInvalidPrefix
	}

	x := new(big.Int).SetBytes(b[1:])
	if !c.field.Contains(x) {
		return nil, ErrCoordinateRange
	}

	roots := c.field.Sqrt(c.evaluate(x))
	if roots == nil {
		return nil, ErrNoSquareRoot
	}

	wantOdd := uint(b[0] & 1)
	for _, y := range roots {
		if y.Bit(0) == wantOdd {
			return &Point{curve: c, x: x, y: y}, nil
		}
	}
	// Only y = 0 can miss; it has no odd representative.
	return nil, ErrNoSquareRoot
}

// DecodeUncompressed parses 0x04 ∥ x ∥ y and checks the point is on the curve.
func (c *Curve) DecodeUncompressed(b []byte) (*Point, error) {
	size := c.ByteSize()
	if len(b) != 1+2*size {
		return nil, ErrInvalidLength
	}
	if b[0] != prefixUncompressed {
		return nil, ErrInvalidPrefix
	}

	x := new(big.Int).SetBytes(b[1 : 1+size])
	y := new(big.Int).SetBytes(b[1+size:])
	return c.NewPoint(x, y)
}
