// Package curves holds the named curve descriptors and the affine point
// arithmetic over short Weierstrass curves y² = x³ + ax + b.
package curves

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/smallyu/go-ecckit/internal/crypto/modular"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// Name identifies a curve. The set of names is closed.
type Name string

const (
	NameSecp256k1  Name = "secp256k1"
	NameSecp256r1  Name = "secp256r1"
	NameCurve25519 Name = "curve25519"
	NameEd25519    Name = "ed25519"
)

// Names returns every known curve name.
func Names() []Name {
	return []Name{NameSecp256k1, NameSecp256r1, NameCurve25519, NameEd25519}
}

// ParseName resolves a curve name, ignoring case. "p256" and "prime256v1"
// are accepted as aliases of secp256r1.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(s) {
	case "secp256k1":
		return NameSecp256k1, nil
	case "secp256r1", "p256", "p-256", "prime256v1":
		return NameSecp256r1, nil
	case "curve25519", "x25519":
		return NameCurve25519, nil
	case "ed25519":
		return NameEd25519, nil
	}
	return "", ecc.NewError(ecc.ErrUnsupportedCurve, fmt.Sprintf("curves: unknown curve %q", s))
}

// Form is the equation family a curve is written in.
type Form int

const (
	ShortWeierstrass Form = iota // y² = x³ + ax + b
	Montgomery                   // by² = x³ + ax² + x
	TwistedEdwards               // ax² + y² = 1 + dx²y²
)

func (f Form) String() string {
	switch f {
	case ShortWeierstrass:
		return "short-weierstrass"
	case Montgomery:
		return "montgomery"
	case TwistedEdwards:
		return "twisted-edwards"
	}
	return fmt.Sprintf("Form(%d)", int(f))
}

// Params describes a named curve. For TwistedEdwards curves B holds d.
type Params struct {
	Name    Name
	Form    Form
	P       *big.Int // field modulus
	A, B    *big.Int // equation coefficients
	Gx, Gy  *big.Int // generator
	N       *big.Int // order of the generator
	H       *big.Int // cofactor
	BitSize int
}

// Curve is a short Weierstrass curve with its base field and scalar field.
// Values are immutable and shared; use Secp256k1 or Secp256r1 to obtain one.
type Curve struct {
	params  Params
	field   modular.Field
	scalars modular.Field
	g       *Point
}

func (c *Curve) Name() Name { return c.params.Name }

func (c *Curve) String() string { return string(c.params.Name) }

// Params returns a copy of the curve descriptor.
func (c *Curve) Params() Params { return c.params.clone() }

// P returns the field modulus.
func (c *Curve) P() *big.Int { return c.field.Modulus() }

// N returns the order of the generator.
func (c *Curve) N() *big.Int { return c.scalars.Modulus() }

// Field returns GF(P).
func (c *Curve) Field() modular.Field { return c.field }

// Scalars returns the scalar field GF(N).
func (c *Curve) Scalars() modular.Field { return c.scalars }

// BitSize returns the bit width of the field.
func (c *Curve) BitSize() int { return c.params.BitSize }

// ByteSize returns the fixed width of an encoded field element or scalar.
func (c *Curve) ByteSize() int { return (c.params.BitSize + 7) / 8 }

// Generator returns G.
func (c *Curve) Generator() *Point { return c.g }

// Infinity returns the identity element.
func (c *Curve) Infinity() *Point { return &Point{curve: c, inf: true} }

// IsScalar reports whether 0 < k < N.
func (c *Curve) IsScalar(k *big.Int) bool {
	return k.Sign() > 0 && k.Cmp(c.params.N) < 0
}

// evaluate returns x³ + ax + b mod P.
func (c *Curve) evaluate(x *big.Int) *big.Int {
	f := c.field
	x3 := f.Mul(f.Square(x), x)
	ax := f.Mul(c.params.A, x)
	return f.Add(f.Add(x3, ax), c.params.B)
}

func (p Params) clone() Params {
	p.P = new(big.Int).Set(p.P)
	p.A = new(big.Int).Set(p.A)
	p.B = new(big.Int).Set(p.B)
	p.Gx = new(big.Int).Set(p.Gx)
	p.Gy = new(big.Int).Set(p.Gy)
	p.N = new(big.Int).Set(p.N)
	p.H = new(big.Int).Set(p.H)
	return p
}

func newCurve(p Params) *Curve {
	if p.Form != ShortWeierstrass {
		panic("curves: " + string(p.Name) + " is not a short Weierstrass curve")
	}
	c := &Curve{
		params:  p,
		field:   modular.NewField(p.P),
		scalars: modular.NewField(p.N),
	}

	// 4a³ + 27b² must not vanish.
	f := c.field
	disc := f.Add(
		f.Mul(big.NewInt(4), f.Mul(f.Square(p.A), p.A)),
		f.Mul(big.NewInt(27), f.Square(p.B)),
	)
	if disc.Sign() == 0 {
		panic("curves: singular curve " + string(p.Name))
	}

	g, err := c.NewPoint(p.Gx, p.Gy)
	if err != nil {
		panic("curves: generator of " + string(p.Name) + " is not on the curve")
	}
	c.g = g
	return c
}

func fromHex(s string) *big.Int {
	r, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: invalid hex constant " + s)
	}
	return r
}

var (
	initOnce      sync.Once
	curveK1       *Curve
	curveR1       *Curve
	curve25519Par Params
	ed25519Par    Params
)

func initAll() {
	curveK1 = newCurve(Params{
		Name:    NameSecp256k1,
		Form:    ShortWeierstrass,
		P:       fromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"),
		A:       big.NewInt(0),
		B:       big.NewInt(7),
		Gx:      fromHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"),
		Gy:      fromHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"),
		N:       fromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"),
		H:       big.NewInt(1),
		BitSize: 256,
	})

	p256 := fromHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF")
	curveR1 = newCurve(Params{
		Name:    NameSecp256r1,
		Form:    ShortWeierstrass,
		P:       p256,
		A:       new(big.Int).Sub(p256, big.NewInt(3)),
		B:       fromHex("5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B"),
		Gx:      fromHex("6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296"),
		Gy:      fromHex("4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5"),
		N:       fromHex("FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551"),
		H:       big.NewInt(1),
		BitSize: 256,
	})

	p25519 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))
	l := fromHex("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED")

	curve25519Par = Params{
		Name:    NameCurve25519,
		Form:    Montgomery,
		P:       p25519,
		A:       big.NewInt(486662),
		B:       big.NewInt(1),
		Gx:      big.NewInt(9),
		Gy:      fromHex("20AE19A1B8A086B4E01EDD2C7748D14C923D4D7E6D7C61B229E9C5A27ECED3D9"),
		N:       l,
		H:       big.NewInt(8),
		BitSize: 255,
	}

	ed25519Par = Params{
		Name:    NameEd25519,
		Form:    TwistedEdwards,
		P:       p25519,
		A:       new(big.Int).Sub(p25519, big.NewInt(1)),
		B:       fromHex("52036CEE2B6FFE738CC740797779E89800700A4D4141D8AB75EB4DCA135978A3"),
		Gx:      fromHex("216936D3CD6E53FEC0A4E231FDD6DC5C692CC7609525A7B2C9562D608F25D51A"),
		Gy:      fromHex("6666666666666666666666666666666666666666666666666666666666666658"),
		N:       l,
		H:       big.NewInt(8),
		BitSize: 255,
	}
}

// Secp256k1 returns the SEC 2 Koblitz curve used by Bitcoin.
func Secp256k1() *Curve {
	initOnce.Do(initAll)
	return curveK1
}

// Secp256r1 returns NIST P-256.
func Secp256r1() *Curve {
	initOnce.Do(initAll)
	return curveR1
}

// Curve25519Params returns the Montgomery-form descriptor of Curve25519.
func Curve25519Params() Params {
	initOnce.Do(initAll)
	return curve25519Par.clone()
}

// Ed25519Params returns the twisted Edwards descriptor of edwards25519.
// Its group law is available through Ed25519Group.
func Ed25519Params() Params {
	initOnce.Do(initAll)
	return ed25519Par.clone()
}

// Lookup returns the short Weierstrass curve with the given name. Curve25519
// and Ed25519 have descriptors only and yield ErrUnsupportedCurve.
func Lookup(name Name) (*Curve, error) {
	switch name {
	case NameSecp256k1:
		return Secp256k1(), nil
	case NameSecp256r1:
		return Secp256r1(), nil
	case NameCurve25519, NameEd25519:
		return nil, ecc.NewError(ecc.ErrUnsupportedCurve,
			fmt.Sprintf("curves: %s has no short Weierstrass group law", name))
	}
	return nil, ecc.NewError(ecc.ErrUnsupportedCurve, fmt.Sprintf("curves: unknown curve %q", name))
}

// LookupParams returns the descriptor for any known curve.
func LookupParams(name Name) (Params, error) {
	switch name {
	case NameSecp256k1:
		return Secp256k1().Params(), nil
	case NameSecp256r1:
		return Secp256r1().Params(), nil
	case NameCurve25519:
		return Curve25519Params(), nil
	case NameEd25519:
		return Ed25519Params(), nil
	}
	return Params{}, ecc.NewError(ecc.ErrUnsupportedCurve, fmt.Sprintf("curves: unknown curve %q", name))
}
