package curves

import (
	"fmt"
	"math/big"
)

// Point is an affine point on a short Weierstrass curve, or the point at
// infinity. Points are immutable; every operation returns a new value.
type Point struct {
	curve *Curve
	x, y  *big.Int
	inf   bool
}

// NewPoint returns the point (x, y) after checking that both coordinates are
// field elements and that the point satisfies the curve equation.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if !c.field.Contains(x) || !c.field.Contains(y) {
		return nil, ErrCoordinateRange
	}
	p := &Point{curve: c, x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !p.IsOnCurve() {
		return nil, ErrNotOnCurve
	}
	return p, nil
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve { return p.curve }

// IsInfinity reports whether p is the identity element.
func (p *Point) IsInfinity() bool { return p.inf }

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p *Point) X() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p *Point) Y() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// IsOnCurve reports whether y² ≡ x³ + ax + b (mod P). The point at infinity
// is on every curve.
func (p *Point) IsOnCurve() bool {
	if p.inf {
		return true
	}
	f := p.curve.field
	return f.Square(p.y).Cmp(p.curve.evaluate(p.x)) == 0
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.curve == q.curve && p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Negate returns -p = (x, -y mod P).
func (p *Point) Negate() *Point {
	if p.inf {
		return p
	}
	return &Point{curve: p.curve, x: p.x, y: p.curve.field.Neg(p.y)}
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	if p.curve != q.curve {
		panic("curves: adding points of different curves")
	}

	// 1. Identity
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}

	// 2. p == -q
	if p.Equal(q.Negate()) {
		return p.curve.Infinity()
	}

	// 3. p == q
	if p.Equal(q) {
		return p.Double()
	}

	// 4. λ = (y2 - y1) / (x2 - x1)
	f := p.curve.field
	lambda, err := f.Div(f.Sub(q.y, p.y), f.Sub(q.x, p.x))
	if err != nil {
		panic("curves: x2 - x1 not invertible for distinct points")
	}
	return p.chord(lambda, q.x)
}

// Double returns 2p.
func (p *Point) Double() *Point {
	if p.inf || p.y.Sign() == 0 {
		return p.curve.Infinity()
	}

	// λ = (3x² + a) / 2y
	f := p.curve.field
	num := f.Add(f.Mul(big.NewInt(3), f.Square(p.x)), p.curve.params.A)
	lambda, err := f.Div(num, f.Add(p.y, p.y))
	if err != nil {
		panic("curves: 2y not invertible for y != 0")
	}
	return p.chord(lambda, p.x)
}

// chord finishes addition or doubling given the slope through p and a point
// with x coordinate x2: x3 = λ² - x1 - x2, y3 = λ(x1 - x3) - y1.
func (p *Point) chord(lambda, x2 *big.Int) *Point {
	f := p.curve.field
	x3 := f.Sub(f.Sub(f.Square(lambda), p.x), x2)
	y3 := f.Sub(f.Mul(lambda, f.Sub(p.x, x3)), p.y)
	return &Point{curve: p.curve, x: x3, y: y3}
}

// ScalarMult returns k·p using least-significant-bit first double-and-add.
// The iteration count follows the bit length of k, so this must only be used
// with public scalars. k is reduced modulo N first.
func (p *Point) ScalarMult(k *big.Int) *Point {
	k = p.curve.scalars.Reduce(k)

	result := p.curve.Infinity()
	addend := p
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = result.Add(addend)
		}
		addend = addend.Double()
	}
	return result
}

// ScalarBaseMult returns k·G. It always walks the full bit width of the curve
// and computes both the sum and the next double on every step, choosing the
// accumulator by indexing on the scalar bit rather than branching on it.
// The underlying big.Int arithmetic is not constant time.
func (c *Curve) ScalarBaseMult(k *big.Int) *Point {
	k = c.scalars.Reduce(k)

	result := c.Infinity()
	addend := c.g
	for i := 0; i < c.params.BitSize; i++ {
		candidates := [2]*Point{result, result.Add(addend)}
		result = candidates[k.Bit(i)]
		addend = addend.Double()
	}
	return result
}

// MulAdd returns u1·G + u2·q for public scalars u1 and u2.
func (c *Curve) MulAdd(u1 *big.Int, q *Point, u2 *big.Int) *Point {
	return c.g.ScalarMult(u1).Add(q.ScalarMult(u2))
}

func (p *Point) String() string {
	if p.inf {
		return fmt.Sprintf("%s(infinity)", p.curve.Name())
	}
	return fmt.Sprintf("%s(%064x, %064x)", p.curve.Name(), p.x, p.y)
}
