package modular

import (
	"math/big"
)

// Field is the prime field GF(p). All results are reduced into [0, p) and
// freshly allocated; arguments are never modified.
type Field struct {
	p *big.Int
}

// NewField returns the field with modulus p. It panics if p <= 1.
func NewField(p *big.Int) Field {
	if p.Cmp(one) <= 0 {
		panic("modular: field modulus must be greater than one")
	}
	return Field{p: new(big.Int).Set(p)}
}

// Modulus returns a copy of p.
func (f Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// Reduce returns x mod p.
func (f Field) Reduce(x *big.Int) *big.Int {
	return Mod(x, f.p)
}

// Contains reports whether 0 <= x < p.
func (f Field) Contains(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(f.p) < 0
}

func (f Field) Add(x, y *big.Int) *big.Int {
	r := new(big.Int).Add(x, y)
	return Mod(r, f.p)
}

func (f Field) Sub(x, y *big.Int) *big.Int {
	r := new(big.Int).Sub(x, y)
	return Mod(r, f.p)
}

func (f Field) Mul(x, y *big.Int) *big.Int {
	r := new(big.Int).Mul(x, y)
	return Mod(r, f.p)
}

func (f Field) Neg(x *big.Int) *big.Int {
	r := new(big.Int).Neg(x)
	return Mod(r, f.p)
}

func (f Field) Square(x *big.Int) *big.Int {
	return f.Mul(x, x)
}

// Exp returns x^e mod p for e >= 0.
func (f Field) Exp(x, e *big.Int) *big.Int {
	return new(big.Int).Exp(f.Reduce(x), e, f.p)
}

// Inverse returns x⁻¹ mod p.
func (f Field) Inverse(x *big.Int) (*big.Int, error) {
	return ModInverse(x, f.p)
}

// Div returns x / y mod p.
func (f Field) Div(x, y *big.Int) (*big.Int, error) {
	inv, err := f.Inverse(y)
	if err != nil {
		return nil, err
	}
	return f.Mul(x, inv), nil
}

// Sqrt returns the square roots of x, or nil if x is a non-residue.
func (f Field) Sqrt(x *big.Int) []*big.Int {
	return SquareRoots(x, f.p)
}

// Legendre returns the Legendre symbol of x.
func (f Field) Legendre(x *big.Int) int {
	return Legendre(x, f.p)
}
