package curves

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// ToSecp256k1 converts a secp256k1 point into a decred public key so it can
// be handed to code built on github.com/decred/dcrd/dcrec/secp256k1.
func (p *Point) ToSecp256k1() (*secp256k1.PublicKey, error) {
	if p.curve.Name() != NameSecp256k1 {
		return nil, ecc.NewError(ecc.ErrUnsupportedCurve,
			fmt.Sprintf("curves: cannot convert a %s point to secp256k1", p.curve.Name()))
	}
	b, err := p.Encode(false)
	if err != nil {
		return nil, err
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("curves: decred rejected point: %w", err)
	}
	return pub, nil
}

// PointFromSecp256k1 converts a decred public key into a Point on Secp256k1.
func PointFromSecp256k1(pub *secp256k1.PublicKey) (*Point, error) {
	if pub == nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, "curves: nil secp256k1 public key")
	}
	return Secp256k1().NewPoint(pub.X(), pub.Y())
}
