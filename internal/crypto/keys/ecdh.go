package keys

import (
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

var ErrCurveMismatch = ecc.NewError(ecc.ErrUnsupportedCurve, "keys: private and public key are on different curves")

// SharedSecret performs Diffie-Hellman key agreement and returns the x
// coordinate of d·Q, left padded to the curve's byte width.
func SharedSecret(priv *PrivateKey, pub *PublicKey) ([]byte, error) {
	if priv.curve != pub.Curve() {
		return nil, ErrCurveMismatch
	}
	s := pub.point.ScalarMult(priv.d)
	if s.IsInfinity() {
		return nil, ecc.NewError(ecc.ErrPointNotOnCurve, "keys: shared point is infinity")
	}
	return s.X().FillBytes(make([]byte, priv.curve.ByteSize())), nil
}

// SharedSecretHash returns alg(SharedSecret(priv, pub)). UnknownAlgorithm
// selects double SHA-256.
func SharedSecretHash(priv *PrivateKey, pub *PublicKey, alg hashes.Algorithm) ([]byte, error) {
	secret, err := SharedSecret(priv, pub)
	if err != nil {
		return nil, err
	}
	if alg == hashes.UnknownAlgorithm {
		alg = hashes.DoubleSHA2_256
	}
	return alg.Sum(secret), nil
}
