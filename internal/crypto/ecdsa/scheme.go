package ecdsa

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
// Signatures are DER encoded.
type Scheme struct {
	curve  *curves.Curve
	hash   hashes.Algorithm
	signer *Signer
}

// NewScheme binds a Signer configured by opts to a curve and the algorithm
// that produced the digests it will be given.
func NewScheme(curve *curves.Curve, alg hashes.Algorithm, opts ...Option) *Scheme {
	return &Scheme{curve: curve, hash: alg, signer: New(opts...)}
}

func (s *Scheme) Name() string { return schemeName }

func (s *Scheme) Curve() string { return s.curve.String() }

// Sign signs digest with a raw private key and returns the DER signature.
func (s *Scheme) Sign(digest, privateKey []byte) ([]byte, error) {
	msg, err := signature.NewMessage(digest, s.hash)
	if err != nil {
		return nil, err
	}
	priv, err := keys.PrivateKeyFromBytes(s.curve, privateKey)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: private key: %w", err)
	}
	sig, err := s.signer.Sign(msg, priv)
	if err != nil {
		return nil, err
	}
	return sig.EncodeDER(), nil
}

// Verify checks a DER signature over digest.
func (s *Scheme) Verify(digest, sig, publicKey []byte) (bool, error) {
	msg, err := signature.NewMessage(digest, s.hash)
	if err != nil {
		return false, err
	}
	pub, err := keys.PublicKeyFromBytes(s.curve, publicKey)
	if err != nil {
		return false, fmt.Errorf("ecdsa: public key: %w", err)
	}
	parsed, err := signature.ParseDER(sig)
	if err != nil {
		return false, fmt.Errorf("ecdsa: signature: %w", err)
	}
	return s.signer.Verify(msg, parsed, pub), nil
}
