package ecdsa

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
	"github.com/smallyu/go-ecckit/internal/crypto/signature"
)

func mustKey(t testing.TB, c *curves.Curve, h string) *keys.PrivateKey {
	t.Helper()
	d, ok := new(big.Int).SetString(h, 16)
	require.True(t, ok, h)
	priv, err := keys.NewPrivateKey(c, d)
	require.NoError(t, err)
	return priv
}

func TestSignRFC6979Vectors(t *testing.T) {
	p256Key := "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721"

	tests := []struct {
		name  string
		curve *curves.Curve
		key   string
		msg   string
		r, s  string
		der   string
	}{{
		name:  "P-256 sample",
		curve: curves.Secp256r1(),
		key:   p256Key,
		msg:   "sample",
		r:     "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716",
		s:     "f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
		der: "3046022100efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716" +
			"022100f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8",
	}, {
		name:  "P-256 test",
		curve: curves.Secp256r1(),
		key:   p256Key,
		msg:   "test",
		r:     "f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367",
		s:     "019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
		der: "3045022100f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d38367" +
			"0220019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083",
	}, {
		name:  "secp256k1 sample",
		curve: curves.Secp256k1(),
		key:   "CCA9FBCC1B41E5A95D369EAA6DDCFF73B61A4EFAA279CFC6567E8DAA39CBAF50",
		msg:   "sample",
		r:     "af340daf02cc15c8d5d08d7735dfe6b98a474ed373bdb5fbecf7571be52b3842",
		s:     "5009fb27f37034a9b24b707b7c6b79ca23ddef9e25f7282e8a797efe53a8f124",
		der: "3045022100af340daf02cc15c8d5d08d7735dfe6b98a474ed373bdb5fbecf7571be52b3842" +
			"02205009fb27f37034a9b24b707b7c6b79ca23ddef9e25f7282e8a797efe53a8f124",
	}, {
		name:  "secp256k1 key 1",
		curve: curves.Secp256k1(),
		key:   "1",
		msg:   "Satoshi Nakamoto",
		r:     "934b1ea10a4b3c1757e2b0c017d0b6143ce3c9a7e6a4a49860d7a6ab210ee3d8",
		s:     "2442ce9d2b916064108014783e923ec36b49743e2ffa1c4496f01a512aafd9e5",
	}, {
		name:  "secp256k1 key N-1",
		curve: curves.Secp256k1(),
		key:   "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140",
		msg:   "Satoshi Nakamoto",
		r:     "fd567d121db66e382991534ada77a6bd3106f0a1098c231e47993447cd6af2d0",
		s:     "6b39cd0eb1bc8603e159ef5c20a5c8ad685a45b06ce9bebed3f153d10d93bed5",
	}, {
		name:  "secp256k1 Alan Turing",
		curve: curves.Secp256k1(),
		key:   "f8b8af8ce3c7cca5e300d33939540c10d45ce001b8f252bfbc57ba0342904181",
		msg:   "Alan Turing",
		r:     "7063ae83e7f62bbb171798131b4a0564b956930092b33b07b395615d9ec7e15c",
		s:     "58dfcc1e00a35e1572f366ffe34ba0fc47db1e7189759b9fb233c5b05ab388ea",
		der: "304402207063ae83e7f62bbb171798131b4a0564b956930092b33b07b395615d9ec7e15c" +
			"022058dfcc1e00a35e1572f366ffe34ba0fc47db1e7189759b9fb233c5b05ab388ea",
	}, {
		name:  "secp256k1 tears in rain",
		curve: curves.Secp256k1(),
		key:   "1",
		msg:   "All those moments will be lost in time, like tears in rain. Time to die...",
		r:     "8600dbd41e348fe5c9465ab92d23e3db8b98b873beecd930736488696438cb6b",
		s:     "547fe64427496db33bf66019dacbf0039c04199abb0122918601db38a72cfc21",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priv := mustKey(t, tt.curve, tt.key)
			msg := signature.MessageFromString(tt.msg, hashes.SHA2_256)

			sig, err := Sign(msg, priv)
			require.NoError(t, err)
			assert.Equal(t, tt.r, fmt.Sprintf("%064x", sig.R))
			assert.Equal(t, tt.s, fmt.Sprintf("%064x", sig.S))
			if tt.der != "" {
				assert.Equal(t, tt.der, hex.EncodeToString(sig.EncodeDER()))
			}

			assert.True(t, Verify(msg, sig, priv.PublicKey()))

			// Deterministic: signing again gives the same signature.
			again, err := Sign(msg, priv)
			require.NoError(t, err)
			assert.True(t, again.Equal(sig))
		})
	}
}

func TestLowSDefaults(t *testing.T) {
	msg := signature.MessageFromString("sample", hashes.SHA2_256)

	// The P-256 "sample" signature has a high S and is left alone by default.
	r1 := curves.Secp256r1()
	priv := mustKey(t, r1, "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")
	sig, err := Sign(msg, priv)
	require.NoError(t, err)
	assert.False(t, sig.IsLowS(r1.N()))

	low, err := New(WithLowS(true)).Sign(msg, priv)
	require.NoError(t, err)
	assert.True(t, low.IsLowS(r1.N()))
	assert.Equal(t, 0, low.R.Cmp(sig.R))
	assert.Equal(t, 0, new(big.Int).Add(low.S, sig.S).Cmp(r1.N()))

	// Both forms verify.
	assert.True(t, Verify(msg, sig, priv.PublicKey()))
	assert.True(t, Verify(msg, low, priv.PublicKey()))

	// secp256k1 normalizes unless told otherwise.
	k1 := curves.Secp256k1()
	rapid.Check(t, func(t *rapid.T) {
		d := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "d"))
		priv, err := keys.NewPrivateKey(k1, d)
		if err != nil {
			t.Skip("out of range")
		}
		m := signature.HashMessage(rapid.SliceOf(rapid.Byte()).Draw(t, "m"), hashes.SHA2_256)
		sig, err := Sign(m, priv)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if !sig.IsLowS(k1.N()) {
			t.Fatalf("secp256k1 signature has high S")
		}
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, c := range []*curves.Curve{curves.Secp256k1(), curves.Secp256r1()} {
		t.Run(c.String(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				kp, err := keys.GenerateKeyPair(c, rand.Reader)
				if err != nil {
					t.Fatalf("keygen: %v", err)
				}
				data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
				msg := signature.HashMessage(data, hashes.SHA2_256)

				signer := New()
				if rapid.Bool().Draw(t, "random nonce") {
					signer = New(WithRandomNonce(rand.Reader))
				}
				sig, err := signer.Sign(msg, kp.Private)
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				if !signer.Verify(msg, sig, kp.Public) {
					t.Fatalf("valid signature rejected")
				}

				other := signature.HashMessage(append(data, 0), hashes.SHA2_256)
				if signer.Verify(other, sig, kp.Public) {
					t.Fatalf("signature verified for a different message")
				}
			})
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	c := curves.Secp256k1()
	priv := mustKey(t, c, "1")
	msg := signature.MessageFromString("Satoshi Nakamoto", hashes.SHA2_256)
	sig, err := Sign(msg, priv)
	require.NoError(t, err)
	pub := priv.PublicKey()

	otherKey := mustKey(t, c, "2").PublicKey()
	r1Key := mustKey(t, curves.Secp256r1(), "1").PublicKey()

	tests := []struct {
		name string
		sig  *signature.Signature
		pub  *keys.PublicKey
	}{
		{"wrong key", sig, otherKey},
		{"wrong curve", sig, r1Key},
		{"r zero", &signature.Signature{R: big.NewInt(0), S: sig.S}, pub},
		{"s zero", &signature.Signature{R: sig.R, S: big.NewInt(0)}, pub},
		{"r = N", &signature.Signature{R: c.N(), S: sig.S}, pub},
		{"s = N", &signature.Signature{R: sig.R, S: c.N()}, pub},
		{"r + 1", &signature.Signature{R: new(big.Int).Add(sig.R, big.NewInt(1)), S: sig.S}, pub},
		{"nil components", &signature.Signature{}, pub},
		{"nil signature", nil, pub},
		{"nil key", sig, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(msg, tt.sig, tt.pub))
		})
	}
}

func TestSignNilInput(t *testing.T) {
	_, err := Sign(nil, mustKey(t, curves.Secp256k1(), "1"))
	assert.ErrorIs(t, err, ErrNilInput)
	_, err = Sign(signature.MessageFromString("x", hashes.SHA2_256), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestRandomNonceReaderFailure(t *testing.T) {
	signer := New(WithRandomNonce(bytes.NewReader(nil)))
	_, err := signer.Sign(signature.MessageFromString("x", hashes.SHA2_256), mustKey(t, curves.Secp256k1(), "1"))
	assert.Error(t, err)
}

func TestNonceHashSelection(t *testing.T) {
	c := curves.Secp256r1()
	priv := mustKey(t, c, "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")

	// A SHA-512 message uses HMAC-SHA-512 for its nonce, matching RFC 6979
	// A.2.5: k = 5fa81c63...
	msg := signature.MessageFromString("sample", hashes.SHA2_512)
	sig, err := Sign(msg, priv)
	require.NoError(t, err)
	want := c.ScalarBaseMult(hexScalar(t, "5fa81c63109badb88c1f367b47da606da28cad69aa22c4fe6ad7df73a7173aa5")).X()
	assert.Equal(t, 0, sig.R.Cmp(c.Scalars().Reduce(want)))

	// Forcing SHA-256 changes the nonce.
	forced, err := New(WithNonceHash(hashes.SHA2_256)).Sign(msg, priv)
	require.NoError(t, err)
	assert.NotEqual(t, 0, forced.R.Cmp(sig.R))
	assert.True(t, Verify(msg, forced, priv.PublicKey()))

	// Double SHA-256 falls back to HMAC-SHA-256.
	dbl := signature.MessageFromString("sample", hashes.DoubleSHA2_256)
	assert.Equal(t, hashes.SHA2_256, New().hashFor(dbl))
}

func hexScalar(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok)
	return v
}

func TestVerifyLogsReason(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	signer := New(WithLogger(logger))

	priv := mustKey(t, curves.Secp256k1(), "1")
	msg := signature.MessageFromString("Satoshi Nakamoto", hashes.SHA2_256)
	sig, err := signer.Sign(msg, priv)
	require.NoError(t, err)

	bad := &signature.Signature{R: sig.R, S: new(big.Int).Add(sig.S, big.NewInt(1))}
	assert.False(t, signer.Verify(msg, bad, priv.PublicKey()))
	assert.Contains(t, buf.String(), `"reason":"R.x mismatch"`)
	assert.Contains(t, buf.String(), `"curve":"secp256k1"`)
	assert.Contains(t, buf.String(), `"scheme":"ecdsa"`)
}
