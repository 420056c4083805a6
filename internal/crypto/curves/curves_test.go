package curves

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecckit/internal/crypto/modular"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

func TestNamedCurves(t *testing.T) {
	for _, c := range []*Curve{Secp256k1(), Secp256r1()} {
		t.Run(c.String(), func(t *testing.T) {
			g := c.Generator()
			assert.True(t, g.IsOnCurve())
			assert.False(t, g.IsInfinity())
			assert.Equal(t, 256, c.BitSize())
			assert.Equal(t, 32, c.ByteSize())
			assert.Equal(t, 0, c.Order().Cmp(c.N()))

			// The generator has order N.
			assert.True(t, g.ScalarMult(new(big.Int).Sub(c.N(), big.NewInt(1))).Equal(g.Negate()))
			assert.True(t, c.ScalarBaseMult(c.N()).IsInfinity())
		})
	}

	// Singletons.
	assert.Same(t, Secp256k1(), Secp256k1())
	assert.Same(t, Secp256r1(), Secp256r1())
}

func TestParamsAreCopies(t *testing.T) {
	p := Secp256k1().Params()
	p.P.SetInt64(5)
	assert.NotEqual(t, int64(5), Secp256k1().P().Int64())

	ed := Ed25519Params()
	ed.N.SetInt64(1)
	assert.NotEqual(t, int64(1), Ed25519Params().N.Int64())
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"secp256k1", NameSecp256k1},
		{"secp256r1", NameSecp256r1},
		{"p256", NameSecp256r1},
		{"P-256", NameSecp256r1},
		{"SECP256K1", NameSecp256k1},
		{"prime256v1", NameSecp256r1},
		{"curve25519", NameCurve25519},
		{"ed25519", NameEd25519},
	}
	for _, tt := range tests {
		got, err := ParseName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseName("secp384r1")
	assert.True(t, errors.Is(err, ecc.ErrUnsupportedCurve))
	assert.Len(t, Names(), 4)
}

func TestLookup(t *testing.T) {
	c, err := Lookup(NameSecp256r1)
	require.NoError(t, err)
	assert.Same(t, Secp256r1(), c)

	for _, name := range []Name{NameCurve25519, NameEd25519, Name("bogus")} {
		_, err := Lookup(name)
		assert.ErrorIs(t, err, ecc.ErrUnsupportedCurve, name)
	}

	for _, name := range Names() {
		p, err := LookupParams(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
	}
}

func TestCurve25519Descriptor(t *testing.T) {
	p := Curve25519Params()
	assert.Equal(t, Montgomery, p.Form)
	f := modular.NewField(p.P)

	// b·v² = u³ + A·u² + u
	u, v := p.Gx, p.Gy
	lhs := f.Mul(p.B, f.Square(v))
	rhs := f.Add(f.Add(f.Mul(f.Square(u), u), f.Mul(p.A, f.Square(u))), u)
	assert.Equal(t, 0, lhs.Cmp(rhs))
}

func TestEd25519Descriptor(t *testing.T) {
	p := Ed25519Params()
	assert.Equal(t, TwistedEdwards, p.Form)
	f := modular.NewField(p.P)

	// a·x² + y² = 1 + d·x²·y²
	x2, y2 := f.Square(p.Gx), f.Square(p.Gy)
	lhs := f.Add(f.Mul(p.A, x2), y2)
	rhs := f.Add(big.NewInt(1), f.Mul(p.B, f.Mul(x2, y2)))
	assert.Equal(t, 0, lhs.Cmp(rhs))
}

func TestFormString(t *testing.T) {
	assert.Equal(t, "short-weierstrass", ShortWeierstrass.String())
	assert.Equal(t, "montgomery", Montgomery.String())
	assert.Equal(t, "twisted-edwards", TwistedEdwards.String())
	assert.Equal(t, "Form(7)", Form(7).String())
}
