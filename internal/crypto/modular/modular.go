// Package modular implements the number theory used by the curve engine:
// reduction, extended Euclid, modular inverse, the Legendre symbol and modular
// square roots.
package modular

import (
	"math/big"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
	five  = big.NewInt(5)
	eight = big.NewInt(8)
)

// ErrNotInvertible is returned by ModInverse when gcd(v, m) != 1.
var ErrNotInvertible = ecc.NewError(ecc.ErrNotInvertible, "modular: value is not invertible")

// Mod returns the representative of x in [0, m). Unlike big.Int.Rem the result
// is never negative. It panics if m <= 0.
func Mod(x, m *big.Int) *big.Int {
	if m.Sign() <= 0 {
		panic("modular: modulus must be positive")
	}
	r := new(big.Int).Rem(x, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

// ExtendedGCD runs the iterative extended Euclidean algorithm and returns
// gcd(a, b) together with Bézout coefficients x, y such that x*a + y*b = gcd.
func ExtendedGCD(a, b *big.Int) (gcd, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		// (oldR, r) = (r, oldR - q*r)
		tmp.Mul(q, r)
		oldR.Sub(oldR, tmp)
		oldR, r = r, oldR

		// (oldS, s) = (s, oldS - q*s)
		tmp.Mul(q, s)
		oldS.Sub(oldS, tmp)
		oldS, s = s, oldS

		// (oldT, t) = (t, oldT - q*t)
		tmp.Mul(q, t)
		oldT.Sub(oldT, tmp)
		oldT, t = t, oldT
	}
	return oldR, oldS, oldT
}

// ModInverse returns v⁻¹ mod m.
func ModInverse(v, m *big.Int) (*big.Int, error) {
	a := Mod(v, m)
	gcd, x, _ := ExtendedGCD(a, m)
	if gcd.Cmp(one) != 0 {
		return nil, ErrNotInvertible
	}
	return Mod(x, m), nil
}

// Legendre returns the Legendre symbol (n/p) for an odd prime p: 1 if n is a
// non-zero quadratic residue, -1 if it is a non-residue and 0 if p divides n.
func Legendre(n, p *big.Int) int {
	e := new(big.Int).Sub(p, one)
	e.Rsh(e, 1)
	ls := new(big.Int).Exp(Mod(n, p), e, p)

	switch {
	case ls.Sign() == 0:
		return 0
	case ls.Cmp(one) == 0:
		return 1
	case ls.Cmp(new(big.Int).Sub(p, one)) == 0:
		return -1
	}
	// Only reachable when p is not prime.
	panic("modular: legendre symbol of composite modulus")
}

// SquareRoots returns the square roots of n modulo the prime p as [r, p-r], or
// nil when n is not a quadratic residue. n ≡ 0 yields the single root 0.
func SquareRoots(n, p *big.Int) []*big.Int {
	n = Mod(n, p)

	if n.Sign() == 0 {
		return []*big.Int{big.NewInt(0)}
	}
	if p.Cmp(two) == 0 {
		return []*big.Int{n}
	}
	if Legendre(n, p) != 1 {
		return nil
	}

	// p ≡ 3 (mod 4)
	if new(big.Int).Mod(p, four).Cmp(three) == 0 {
		e := new(big.Int).Add(p, one)
		e.Rsh(e, 2)
		return pair(new(big.Int).Exp(n, e, p), p)
	}

	// p ≡ 5 (mod 8)
	if new(big.Int).Mod(p, eight).Cmp(five) == 0 {
		e := new(big.Int).Add(p, three)
		x := new(big.Int).Exp(n, new(big.Int).Rsh(e, 3), p)
		if new(big.Int).Exp(n, new(big.Int).Rsh(e, 2), p).Cmp(n) == 0 {
			return pair(x, p)
		}

		// x is a root of -n; multiply by √-1.
		i := tonelliShanks(new(big.Int).Sub(p, one), p)
		if i == nil {
			return nil
		}
		x.Mul(x, i[0])
		x.Mod(x, p)
		if !isRoot(x, n, p) {
			return nil
		}
		return pair(x, p)
	}

	return tonelliShanks(n, p)
}

// tonelliShanks computes the square roots of the residue n mod p.
func tonelliShanks(n, p *big.Int) []*big.Int {
	// Factor p-1 = q * 2^s with q odd.
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	if s == 1 {
		e := new(big.Int).Add(p, one)
		r := new(big.Int).Exp(n, e.Rsh(e, 2), p)
		if isRoot(r, n, p) {
			return pair(r, p)
		}
	}

	// Brute force the first quadratic non-residue.
	z := big.NewInt(2)
	for Legendre(z, p) != -1 {
		z.Add(z, one)
	}

	c := new(big.Int).Exp(z, q, p)
	e := new(big.Int).Add(q, one)
	r := new(big.Int).Exp(n, e.Rsh(e, 1), p)
	t := new(big.Int).Exp(n, q, p)
	m := s

	for t.Cmp(one) != 0 {
		// Least i with t^(2^i) = 1.
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt.Mul(tt, tt)
			tt.Mod(tt, p)
			i++
			if i == m {
				return nil
			}
		}

		// b = c^(2^(m-i-1))
		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b.Mul(b, b)
			b.Mod(b, p)
		}
		c.Mul(b, b)
		c.Mod(c, p)
		r.Mul(r, b)
		r.Mod(r, p)
		t.Mul(t, c)
		t.Mod(t, p)
		m = i
	}

	if !isRoot(r, n, p) {
		return nil
	}
	return pair(r, p)
}

func isRoot(r, n, p *big.Int) bool {
	sq := new(big.Int).Mul(r, r)
	return sq.Mod(sq, p).Cmp(Mod(n, p)) == 0
}

func pair(r, p *big.Int) []*big.Int {
	return []*big.Int{r, new(big.Int).Sub(p, r)}
}
