// Package ecdsa implements ECDSA signing and verification over the curves in
// package curves, with RFC 6979 deterministic nonces by default.
package ecdsa

import (
	"errors"
	"io"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/drbg"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
	"github.com/smallyu/go-ecckit/internal/crypto/signature"
)

const schemeName = "ecdsa"

var (
	ErrNilInput = errors.New("ecdsa: message and key must not be nil")
)

// Option configures a Signer.
type Option func(*Signer)

// WithRandomNonce draws nonces from r instead of deriving them with RFC 6979.
func WithRandomNonce(r io.Reader) Option {
	return func(s *Signer) { s.rand = r }
}

// WithLowS forces low-S normalization on or off. Without this option it is
// on for secp256k1 and off for every other curve.
func WithLowS(enabled bool) Option {
	return func(s *Signer) { s.lowS = &enabled }
}

// WithNonceHash sets the HMAC hash used for RFC 6979. By default the
// message's own algorithm is used when it is a single-pass hash and SHA-256
// otherwise.
func WithNonceHash(alg hashes.Algorithm) Option {
	return func(s *Signer) { s.nonceHash = alg }
}

// WithLogger sets the logger that records nonce retries and verification
// failures at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Signer) { s.log = l }
}

// Signer produces and checks ECDSA signatures. A Signer holds no key material
// and may be shared between goroutines as long as the nonce reader is safe
// for concurrent use.
type Signer struct {
	rand      io.Reader
	lowS      *bool
	nonceHash hashes.Algorithm
	log       zerolog.Logger
}

// New returns a Signer configured by opts.
func New(opts ...Option) *Signer {
	s := &Signer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSigner = New()

// Sign signs msg with priv using the default configuration.
func Sign(msg *signature.Message, priv *keys.PrivateKey) (*signature.Signature, error) {
	return defaultSigner.Sign(msg, priv)
}

// Verify checks sig against msg and pub using the default configuration.
func Verify(msg *signature.Message, sig *signature.Signature, pub *keys.PublicKey) bool {
	return defaultSigner.Verify(msg, sig, pub)
}

func (s *Signer) lowSFor(c *curves.Curve) bool {
	if s.lowS != nil {
		return *s.lowS
	}
	return c.Name() == curves.NameSecp256k1
}

func (s *Signer) hashFor(msg *signature.Message) hashes.Algorithm {
	if s.nonceHash.Available() {
		return s.nonceHash
	}
	switch alg := msg.Algorithm(); alg {
	case hashes.SHA2_256, hashes.SHA2_512, hashes.SHA3_256, hashes.Keccak256:
		return alg
	}
	return hashes.SHA2_256
}

// nonceSource yields candidate nonces in [1, N).
type nonceSource func() (*big.Int, error)

func (s *Signer) nonces(msg *signature.Message, priv *keys.PrivateKey) nonceSource {
	c := priv.Curve()
	if s.rand != nil {
		return func() (*big.Int, error) {
			k, err := keys.GeneratePrivateKey(c, s.rand)
			if err != nil {
				return nil, err
			}
			return k.D(), nil
		}
	}
	stream := drbg.NewNonceStream(s.hashFor(msg).New, c.N(), priv.D(), msg.Digest())
	return func() (*big.Int, error) { return stream.Next(), nil }
}

// Sign produces a signature (r, s) over the message digest.
func (s *Signer) Sign(msg *signature.Message, priv *keys.PrivateKey) (*signature.Signature, error) {
	if msg == nil || priv == nil {
		return nil, ErrNilInput
	}
	c := priv.Curve()
	n := c.N()
	scalars := c.Scalars()
	log := s.log.With().Str("scheme", schemeName).Str("curve", c.String()).Logger()

	d := priv.D()
	z := drbg.Bits2Int(msg.Digest(), n.BitLen())
	next := s.nonces(msg, priv)

	for {
		// 1. Draw a nonce k.
		k, err := next()
		if err != nil {
			return nil, err
		}

		// 2. r = (k·G).x mod N
		r := scalars.Reduce(c.ScalarBaseMult(k).X())
		if r.Sign() == 0 {
			log.Debug().Str("reason", "r is zero").Msg("retrying with next nonce")
			continue
		}

		// 3. s = k⁻¹(z + r·d) mod N
		kInv, err := scalars.Inverse(k)
		if err != nil {
			return nil, err
		}
		sig := scalars.Mul(kInv, scalars.Add(z, scalars.Mul(r, d)))
		if sig.Sign() == 0 {
			log.Debug().Str("reason", "s is zero").Msg("retrying with next nonce")
			continue
		}

		out := &signature.Signature{R: r, S: sig}
		if s.lowSFor(c) {
			out = out.NormalizeLowS(n)
		}
		return out, nil
	}
}

// Verify reports whether sig is a valid signature of msg under pub.
func (s *Signer) Verify(msg *signature.Message, sig *signature.Signature, pub *keys.PublicKey) bool {
	if msg == nil || sig == nil || sig.R == nil || sig.S == nil || pub == nil {
		return false
	}
	c := pub.Curve()
	scalars := c.Scalars()
	log := s.log.With().Str("scheme", schemeName).Str("curve", c.String()).Logger()

	reject := func(reason string) bool {
		log.Debug().Str("reason", reason).Msg("signature rejected")
		return false
	}

	// 1. r and s must lie in [1, N-1].
	if !c.IsScalar(sig.R) || !c.IsScalar(sig.S) {
		return reject("r or s out of range")
	}

	// 2. The public key must be a finite point on the curve.
	q := pub.Point()
	if q.IsInfinity() || !q.IsOnCurve() {
		return reject("public key not on curve")
	}

	// 3. R = u1·G + u2·Q with w = s⁻¹, u1 = z·w, u2 = r·w.
	w, err := scalars.Inverse(sig.S)
	if err != nil {
		return reject("s not invertible")
	}
	z := drbg.Bits2Int(msg.Digest(), c.N().BitLen())
	u1 := scalars.Mul(z, w)
	u2 := scalars.Mul(sig.R, w)
	point := c.MulAdd(u1, q, u2)
	if point.IsInfinity() {
		return reject("R is infinity")
	}

	// 4. Accept when R.x mod N == r.
	if scalars.Reduce(point.X()).Cmp(sig.R) != 0 {
		return reject("R.x mismatch")
	}
	return true
}
