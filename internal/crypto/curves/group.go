package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// Group abstracts the prime-order group behind a named curve so callers that
// only need k·G can treat short Weierstrass and Edwards curves alike.
type Group interface {
	// Name returns the name of the curve.
	Name() Name

	// Order returns the order of the base point (group order).
	Order() *big.Int

	// ScalarBaseMultBytes returns the canonical encoding of k·G.
	ScalarBaseMultBytes(k *big.Int) ([]byte, error)
}

// Order returns the order of the generator.
func (c *Curve) Order() *big.Int { return c.N() }

// ScalarBaseMultBytes returns the compressed SEC 1 encoding of k·G.
func (c *Curve) ScalarBaseMultBytes(k *big.Int) ([]byte, error) {
	return c.ScalarBaseMult(k).Encode(true)
}

// GroupFor returns the group implementation for name. Curve25519 is only
// described, not implemented, and yields ErrUnsupportedCurve.
func GroupFor(name Name) (Group, error) {
	switch name {
	case NameSecp256k1:
		return Secp256k1(), nil
	case NameSecp256r1:
		return Secp256r1(), nil
	case NameEd25519:
		return Ed25519Group{}, nil
	}
	return nil, ecc.NewError(ecc.ErrUnsupportedCurve, fmt.Sprintf("curves: no group law for %s", name))
}
