// Package schnorr implements Schnorr signatures over short Weierstrass
// curves. The signature is (r, s) where r = e = H(R || Q || m) with R and Q
// compressed, and s = k - e·d mod N. Nonces come from an HMAC_DRBG seeded
// with the private key and the message digest.
package schnorr

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/drbg"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
	"github.com/smallyu/go-ecckit/internal/crypto/signature"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const schemeName = "schnorr"

var (
	ErrNonceNotPositive     = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: nonce k is not positive")
	ErrNonceTooLarge        = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: nonce k is not below the group order")
	ErrChallengeNotPositive = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: challenge e is not positive")
	ErrChallengeTooLarge    = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: challenge e is not below the group order")
	ErrSignatureNotPositive = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: signature s is not positive")
	ErrSignatureTooLarge    = ecc.NewError(ecc.ErrInvalidScalarRange, "schnorr: signature s is not below the group order")

	ErrNilInput        = errors.New("schnorr: message and key must not be nil")
	ErrUnsupportedHash = errors.New("schnorr: hash is unavailable or wider than the group order")
)

// Option configures a Signer.
type Option func(*Signer)

// WithHash sets the hash used for the challenge and for the nonce DRBG.
// The default is SHA-256.
func WithHash(alg hashes.Algorithm) Option {
	return func(s *Signer) { s.hash = alg }
}

// WithPersonalization sets the personalization string mixed into the nonce
// DRBG. Signatures made with different personalization strings use different
// nonces but verify the same way.
func WithPersonalization(p []byte) Option {
	return func(s *Signer) { s.personalization = append([]byte(nil), p...) }
}

// WithLogger sets the logger that records nonce retries and verification
// failures at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Signer) { s.log = l }
}

// Signer produces and checks Schnorr signatures.
type Signer struct {
	hash            hashes.Algorithm
	personalization []byte
	log             zerolog.Logger
}

// New returns a Signer configured by opts.
func New(opts ...Option) *Signer {
	s := &Signer{hash: hashes.SHA2_256, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSigner = New()

// Sign signs msg with priv using SHA-256 and no personalization.
func Sign(msg *signature.Message, priv *keys.PrivateKey) (*signature.Signature, error) {
	return defaultSigner.Sign(msg, priv)
}

// Verify checks sig against msg and pub using SHA-256.
func Verify(msg *signature.Message, sig *signature.Signature, pub *keys.PublicKey) bool {
	return defaultSigner.Verify(msg, sig, pub)
}

// checkScalar returns errZero when v <= 0 and errLarge when v >= n.
func checkScalar(v, n *big.Int, errZero, errLarge error) error {
	if v.Sign() <= 0 {
		return errZero
	}
	if v.Cmp(n) >= 0 {
		return errLarge
	}
	return nil
}

// Sign produces a signature (r, s) over the message digest.
func (s *Signer) Sign(msg *signature.Message, priv *keys.PrivateKey) (*signature.Signature, error) {
	if msg == nil || priv == nil {
		return nil, ErrNilInput
	}
	c := priv.Curve()
	n := c.N()
	if !s.hashFits(n) {
		return nil, ErrUnsupportedHash
	}
	scalars := c.Scalars()
	log := s.log.With().Str("scheme", schemeName).Str("curve", c.String()).Logger()

	d := priv.D()
	q := priv.PublicKey().Point()
	digest := msg.Digest()

	nonces, err := drbg.New(s.hash.New, priv.Bytes(), digest, s.personalization)
	if err != nil {
		return nil, fmt.Errorf("schnorr: seeding nonce generator: %w", err)
	}

	for {
		// 1. Draw k from the DRBG.
		kb, err := nonces.Generate(c.ByteSize(), nil)
		if err != nil {
			return nil, err
		}
		k := new(big.Int).SetBytes(kb)
		if err := checkScalar(k, n, ErrNonceNotPositive, ErrNonceTooLarge); err != nil {
			log.Debug().Str("reason", err.Error()).Msg("retrying with next nonce")
			continue
		}

		// 2. R = k·G, negating k when R.y is not a quadratic residue.
		r := c.ScalarBaseMult(k)
		if c.Field().Legendre(r.Y()) != 1 {
			k = scalars.Neg(k)
			r = r.Negate()
		}

		// 3. e = H(R || Q || m)
		e, err := s.challenge(r, q, digest)
		if err != nil {
			return nil, err
		}
		if err := checkScalar(e, n, ErrChallengeNotPositive, ErrChallengeTooLarge); err != nil {
			log.Debug().Str("reason", err.Error()).Msg("retrying with next nonce")
			continue
		}

		// 4. s = k - e·d mod N
		sv := scalars.Sub(k, scalars.Mul(e, d))
		if sv.Sign() == 0 {
			log.Debug().Str("reason", ErrSignatureNotPositive.Error()).Msg("retrying with next nonce")
			continue
		}

		return &signature.Signature{R: e, S: sv}, nil
	}
}

// Verify reports whether sig is a valid signature of msg under pub.
func (s *Signer) Verify(msg *signature.Message, sig *signature.Signature, pub *keys.PublicKey) bool {
	if msg == nil || sig == nil || sig.R == nil || sig.S == nil || pub == nil {
		return false
	}
	c := pub.Curve()
	n := c.N()
	log := s.log.With().Str("scheme", schemeName).Str("curve", c.String()).Logger()

	reject := func(reason string) bool {
		log.Debug().Str("reason", reason).Msg("signature rejected")
		return false
	}

	// 1. r and s must lie in [1, N-1].
	if err := checkScalar(sig.R, n, ErrChallengeNotPositive, ErrChallengeTooLarge); err != nil {
		return reject(err.Error())
	}
	if err := checkScalar(sig.S, n, ErrSignatureNotPositive, ErrSignatureTooLarge); err != nil {
		return reject(err.Error())
	}

	if !s.hashFits(n) {
		return reject(ErrUnsupportedHash.Error())
	}
	q := pub.Point()
	if q.IsInfinity() || !q.IsOnCurve() {
		return reject("public key not on curve")
	}

	// 2. R' = s·G + r·Q
	r := c.MulAdd(sig.S, q, sig.R)
	if r.IsInfinity() {
		return reject("R is infinity")
	}

	// 3. e' = H(R' || Q || m) must be in range and equal r.
	e, err := s.challenge(r, q, msg.Digest())
	if err != nil {
		return reject(err.Error())
	}
	if err := checkScalar(e, n, ErrChallengeNotPositive, ErrChallengeTooLarge); err != nil {
		return reject(err.Error())
	}
	if e.Cmp(sig.R) != 0 {
		return reject("challenge mismatch")
	}
	return true
}

// hashFits reports whether every challenge the hash can produce has at most
// as many bits as n.
func (s *Signer) hashFits(n *big.Int) bool {
	return s.hash.Available() && s.hash.Size()*8 <= n.BitLen()
}

// challenge computes H(compressed(R) || compressed(Q) || m) as an integer.
func (s *Signer) challenge(r, q *curves.Point, m []byte) (*big.Int, error) {
	rb, err := r.Encode(true)
	if err != nil {
		return nil, err
	}
	qb, err := q.Encode(true)
	if err != nil {
		return nil, err
	}

	h := s.hash.New()
	h.Write(rb)
	h.Write(qb)
	h.Write(m)
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}
