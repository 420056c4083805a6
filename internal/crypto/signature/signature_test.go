package signature

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

var secp256k1N, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

func decInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid decimal " + s)
	}
	return v
}

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDERKnownVector(t *testing.T) {
	sig := NewSignature(
		decInt("52617691991220931227794138107685429667129144574515111025493805026351628195312"),
		decInt("69650880131778720500573473496750533897225181277314667394632202424067811752564"),
	)
	want := "3045022074548eebb0294166e9aae01abe57196d7723feb334ddd1e92953107abbd495f0" +
		"02210099fd0049db199ade30fa239e17c9840709ea112f4d374bb4693b039c2c08ba74"

	assert.Equal(t, want, hex.EncodeToString(sig.EncodeDER()))

	parsed, err := ParseDER(mustDecodeHex(t, want))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(sig))
}

func TestDERSmallValues(t *testing.T) {
	sig := NewSignature(big.NewInt(1), big.NewInt(0x80))
	der := sig.EncodeDER()
	assert.Equal(t, "3007020101020200"+"80", hex.EncodeToString(der))
	assert.Len(t, der, 9)

	back, err := ParseDER(der)
	require.NoError(t, err)
	assert.True(t, back.Equal(sig))
}

func TestParseDERErrors(t *testing.T) {
	valid := NewSignature(big.NewInt(0x1234), big.NewInt(0x5678)).EncodeDER()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), valid...))
	}

	tests := []struct {
		name string
		der  []byte
		kind ecc.ErrorKind
	}{
		{"empty", nil, ecc.ErrMalformedEncoding},
		{"too short", valid[:7], ecc.ErrMalformedEncoding},
		{"too long", append([]byte{0x30, 71}, make([]byte, 71)...), ecc.ErrMalformedEncoding},
		{"wrong sequence tag", mutate(func(b []byte) []byte { b[0] = 0x31; return b }), ecc.ErrMalformedEncoding},
		{"sequence length", mutate(func(b []byte) []byte { b[1]++; return b }), ecc.ErrMalformedEncoding},
		{"trailing byte", mutate(func(b []byte) []byte { b[1]++; return append(b, 0) }), ecc.ErrMalformedEncoding},
		{"r length overruns", mutate(func(b []byte) []byte { b[3] = 60; return b }), ecc.ErrMalformedEncoding},
		{"s length", mutate(func(b []byte) []byte { b[len(b)-3]++; return b }), ecc.ErrMalformedEncoding},
		{"r tag", mutate(func(b []byte) []byte { b[2] = 0x03; return b }), ecc.ErrMalformedEncoding},
		{"s tag", mutate(func(b []byte) []byte { b[6] = 0x03; return b }), ecc.ErrMalformedEncoding},
		{"negative r", mutate(func(b []byte) []byte { b[4] = 0x92; return b }), ecc.ErrMalformedEncoding},
		{"negative s", mutate(func(b []byte) []byte { b[8] = 0xd6; return b }), ecc.ErrMalformedEncoding},
		{"zero length r", []byte{0x30, 0x06, 0x02, 0x00, 0x02, 0x02, 0x01, 0x01}, ecc.ErrMalformedEncoding},
		{"padded r", []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x01, 0x02, 0x01, 0x01}, ecc.ErrMalformedEncoding},
		{"padded s", []byte{0x30, 0x07, 0x02, 0x01, 0x01, 0x02, 0x02, 0x00, 0x01}, ecc.ErrMalformedEncoding},
		{"zero r", []byte{0x30, 0x06, 0x02, 0x01, 0x00, 0x02, 0x01, 0x01}, ecc.ErrInvalidScalarRange},
		{"zero s", []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x00}, ecc.ErrInvalidScalarRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseDER(tt.der)
			assert.Nil(t, sig)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v, want %v", err, tt.kind)
		})
	}
}

func TestDERRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "r"))
		s := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "s"))
		if r.Sign() == 0 || s.Sign() == 0 {
			t.Skip("zero component")
		}
		sig := NewSignature(r, s)
		der := sig.EncodeDER()
		back, err := ParseDER(der)
		if err != nil {
			t.Fatalf("parse %x: %v", der, err)
		}
		if !back.Equal(sig) {
			t.Fatalf("round trip mismatch: %v vs %v", back, sig)
		}
		if !bytes.Equal(back.EncodeDER(), der) {
			t.Fatalf("re-encoding differs")
		}
	})
}

func FuzzParseDER(f *testing.F) {
	f.Add(NewSignature(big.NewInt(1), big.NewInt(1)).EncodeDER())
	f.Add(NewSignature(secp256k1N, secp256k1N).EncodeDER())
	f.Add([]byte{0x30})

	f.Fuzz(func(t *testing.T, b []byte) {
		sig, err := ParseDER(b)
		if err != nil {
			return
		}
		if !bytes.Equal(sig.EncodeDER(), b) {
			t.Fatalf("accepted non-canonical encoding %x", b)
		}
	})
}

func TestLowS(t *testing.T) {
	half := halfOrder(secp256k1N)
	high := new(big.Int).Add(half, big.NewInt(1))

	lowSig := NewSignature(big.NewInt(1), half)
	assert.True(t, lowSig.IsLowS(secp256k1N))
	assert.True(t, lowSig.NormalizeLowS(secp256k1N).Equal(lowSig))

	highSig := NewSignature(big.NewInt(1), high)
	assert.False(t, highSig.IsLowS(secp256k1N))
	norm := highSig.NormalizeLowS(secp256k1N)
	assert.True(t, norm.IsLowS(secp256k1N))
	assert.Equal(t, 0, new(big.Int).Add(norm.S, high).Cmp(secp256k1N))

	// The receiver is left untouched.
	assert.Equal(t, 0, highSig.S.Cmp(high))
}

func TestLowSIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "s"))
		s.Mod(s, secp256k1N)
		if s.Sign() == 0 {
			t.Skip("zero")
		}
		once := NewSignature(big.NewInt(1), s).NormalizeLowS(secp256k1N)
		twice := once.NormalizeLowS(secp256k1N)
		if !once.Equal(twice) || !once.IsLowS(secp256k1N) {
			t.Fatalf("normalization of %x is not idempotent", s)
		}
	})
}

func TestRawHex(t *testing.T) {
	sig := NewSignature(big.NewInt(1), big.NewInt(2))
	h := sig.Hex()
	assert.Len(t, h, 128)
	assert.Equal(t, strings.Repeat("0", 63)+"1"+strings.Repeat("0", 63)+"2", h)
	assert.Equal(t, h, sig.String())

	back, err := FromHex(h)
	require.NoError(t, err)
	assert.True(t, back.Equal(sig))

	_, err = FromHex(h[:126])
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)
	_, err = FromHex(strings.Repeat("z", 128))
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)
	_, err = FromHex(strings.Repeat("0", 128))
	assert.ErrorIs(t, err, ecc.ErrInvalidScalarRange)
	_, err = FromBytes(make([]byte, 10))
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)
}

func TestMessage(t *testing.T) {
	m := MessageFromString("abc", hashes.SHA2_256)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(m.Digest()))
	assert.Equal(t, hashes.SHA2_256, m.Algorithm())
	assert.True(t, strings.HasPrefix(m.String(), "SHA2_256:"))

	d := m.Digest()
	d[0] ^= 0xff
	assert.NotEqual(t, d, m.Digest())

	fromHex, err := MessageFromHex(hex.EncodeToString(m.Digest()), hashes.SHA2_256)
	require.NoError(t, err)
	assert.Equal(t, m.Digest(), fromHex.Digest())

	_, err = NewMessage(nil, hashes.SHA2_256)
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)
	_, err = NewMessage(make([]byte, 20), hashes.SHA2_256)
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)
	_, err = MessageFromHex("not hex", hashes.SHA2_256)
	assert.ErrorIs(t, err, ecc.ErrMalformedEncoding)

	// Unknown algorithms accept any non-empty digest.
	raw, err := NewMessage([]byte{1, 2, 3}, hashes.UnknownAlgorithm)
	require.NoError(t, err)
	assert.Len(t, raw.Digest(), 3)
}
