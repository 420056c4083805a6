// Package schemes builds ecc.Scheme values from ecc.Parameters so that front
// ends (the CLI, the wasm bindings) can select a signature scheme by name.
package schemes

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/ecdsa"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/schnorr"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const (
	ECDSA   = "ecdsa"
	Schnorr = "schnorr"

	NonceRFC6979 = "rfc6979"
	NonceRandom  = "random"
)

// Names lists the supported scheme names.
func Names() []string { return []string{ECDSA, Schnorr} }

// Option configures New.
type Option func(*config)

type config struct {
	log  zerolog.Logger
	rand io.Reader
}

// WithLogger passes l to the signer.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithRand sets the reader used when Parameters.Nonce is "random".
// The default is crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(c *config) { c.rand = r }
}

// Initializer returns an ecc.SchemeInitializer bound to opts.
func Initializer(opts ...Option) ecc.SchemeInitializer {
	return func(params *ecc.Parameters) (ecc.Scheme, error) {
		return New(params, opts...)
	}
}

// New resolves params into a Scheme. Empty fields take their defaults:
// ECDSA over secp256k1 with SHA-256 digests and RFC 6979 nonces.
func New(params *ecc.Parameters, opts ...Option) (ecc.Scheme, error) {
	cfg := &config{log: zerolog.Nop(), rand: rand.Reader}
	for _, opt := range opts {
		opt(cfg)
	}

	p := withDefaults(params)

	name, err := curves.ParseName(p.Curve)
	if err != nil {
		return nil, err
	}
	curve, err := curves.Lookup(name)
	if err != nil {
		return nil, err
	}
	alg, err := hashes.Parse(p.Hash)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(p.Scheme) {
	case ECDSA:
		opts := []ecdsa.Option{ecdsa.WithLogger(cfg.log)}
		switch strings.ToLower(p.Nonce) {
		case NonceRFC6979:
		case NonceRandom:
			opts = append(opts, ecdsa.WithRandomNonce(cfg.rand))
		default:
			return nil, fmt.Errorf("schemes: unknown nonce source %q", p.Nonce)
		}
		if p.LowS != nil {
			opts = append(opts, ecdsa.WithLowS(*p.LowS))
		}
		return ecdsa.NewScheme(curve, alg, opts...), nil

	case Schnorr:
		if !strings.EqualFold(p.Nonce, NonceRFC6979) {
			return nil, fmt.Errorf("schemes: schnorr derives its own nonces, got nonce source %q", p.Nonce)
		}
		return schnorr.NewScheme(curve, alg, schnorr.WithLogger(cfg.log)), nil
	}
	return nil, fmt.Errorf("schemes: unknown scheme %q", p.Scheme)
}

func withDefaults(params *ecc.Parameters) ecc.Parameters {
	var p ecc.Parameters
	if params != nil {
		p = *params
	}
	if p.Scheme == "" {
		p.Scheme = ECDSA
	}
	if p.Curve == "" {
		p.Curve = string(curves.NameSecp256k1)
	}
	if p.Hash == "" {
		p.Hash = hashes.SHA2_256.String()
	}
	if p.Nonce == "" {
		p.Nonce = NonceRFC6979
	}
	return p
}
