package schnorr

import (
	"fmt"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
	"github.com/smallyu/go-ecckit/internal/crypto/signature"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

var _ ecc.Scheme = (*Scheme)(nil)

// Scheme adapts a Signer to the byte-oriented ecc.Scheme interface.
// Signatures use the 64 byte raw form r || s.
type Scheme struct {
	curve  *curves.Curve
	digest hashes.Algorithm
	signer *Signer
}

// NewScheme binds a Signer configured by opts to a curve. alg names the
// algorithm that produced the digests passed to Sign and Verify.
func NewScheme(curve *curves.Curve, alg hashes.Algorithm, opts ...Option) *Scheme {
	return &Scheme{curve: curve, digest: alg, signer: New(opts...)}
}

func (s *Scheme) Name() string { return schemeName }

func (s *Scheme) Curve() string { return s.curve.String() }

func (s *Scheme) Sign(digest, privateKey []byte) ([]byte, error) {
	msg, err := signature.NewMessage(digest, s.digest)
	if err != nil {
		return nil, err
	}
	priv, err := keys.PrivateKeyFromBytes(s.curve, privateKey)
	if err != nil {
		return nil, fmt.Errorf("schnorr: private key: %w", err)
	}
	sig, err := s.signer.Sign(msg, priv)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

func (s *Scheme) Verify(digest, sig, publicKey []byte) (bool, error) {
	msg, err := signature.NewMessage(digest, s.digest)
	if err != nil {
		return false, err
	}
	pub, err := keys.PublicKeyFromBytes(s.curve, publicKey)
	if err != nil {
		return false, fmt.Errorf("schnorr: public key: %w", err)
	}
	parsed, err := signature.FromBytes(sig)
	if err != nil {
		return false, fmt.Errorf("schnorr: signature: %w", err)
	}
	return s.signer.Verify(msg, parsed, pub), nil
}
