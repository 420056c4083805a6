// Package drbg implements the HMAC_DRBG deterministic random bit generator
// from NIST SP 800-90A and the RFC 6979 deterministic nonce derivation built
// on the same construction.
package drbg

import (
	"crypto/hmac"
	"hash"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const (
	// MinEntropyLen is the shortest entropy input accepted by New and Reseed.
	MinEntropyLen = 24

	// ReseedInterval is the number of Generate calls allowed between reseeds.
	ReseedInterval = uint64(1) << 48
)

var (
	ErrInsufficientEntropy = ecc.NewError(ecc.ErrInsufficientEntropy, "drbg: entropy input must be at least 24 bytes")
	ErrReseedRequired      = ecc.NewError(ecc.ErrReseedRequired, "drbg: reseed interval exhausted")
)

// HMACDRBG holds the working state (K, V, reseed counter) of an HMAC_DRBG
// instance. It is not safe for concurrent use.
type HMACDRBG struct {
	newHash func() hash.Hash
	k, v    []byte
	// remaining counts the Generate calls left before a reseed is required.
	remaining uint64
}

// New instantiates an HMAC_DRBG with the given hash function. The seed
// material is entropy || nonce || personalization; nonce and personalization
// may be empty.
func New(newHash func() hash.Hash, entropy, nonce, personalization []byte) (*HMACDRBG, error) {
	if len(entropy) < MinEntropyLen {
		return nil, ErrInsufficientEntropy
	}

	d := instantiate(newHash)
	seed := make([]byte, 0, len(entropy)+len(nonce)+len(personalization))
	seed = append(seed, entropy...)
	seed = append(seed, nonce...)
	seed = append(seed, personalization...)
	d.update(seed)
	return d, nil
}

// instantiate returns the initial state K = 0x00..., V = 0x01... before any
// seed material is mixed in.
func instantiate(newHash func() hash.Hash) *HMACDRBG {
	size := newHash().Size()
	d := &HMACDRBG{
		newHash:   newHash,
		k:         make([]byte, size),
		v:         make([]byte, size),
		remaining: ReseedInterval,
	}
	for i := range d.v {
		d.v[i] = 0x01
	}
	return d
}

func (d *HMACDRBG) mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(d.newHash, key)
	for _, p := range parts {
		_, _ = m.Write(p)
	}
	return m.Sum(nil)
}

// update runs the HMAC_DRBG update function. The second round only happens
// when seed material is provided.
func (d *HMACDRBG) update(seed []byte) {
	d.k = d.mac(d.k, d.v, []byte{0x00}, seed)
	d.v = d.mac(d.k, d.v)
	if seed == nil {
		return
	}
	d.k = d.mac(d.k, d.v, []byte{0x01}, seed)
	d.v = d.mac(d.k, d.v)
}

// Generate returns n pseudorandom bytes. Empty additional input is treated
// as absent.
func (d *HMACDRBG) Generate(n int, additional []byte) ([]byte, error) {
	if d.remaining == 0 {
		return nil, ErrReseedRequired
	}
	if len(additional) == 0 {
		additional = nil
	}
	if additional != nil {
		d.update(additional)
	}

	out := make([]byte, 0, n+len(d.v))
	for len(out) < n {
		d.v = d.mac(d.k, d.v)
		out = append(out, d.v...)
	}
	out = out[:n]

	d.update(additional)
	d.remaining--
	return out, nil
}

// Reseed mixes fresh entropy into the state and resets the reseed counter.
func (d *HMACDRBG) Reseed(entropy, additional []byte) error {
	if len(entropy) < MinEntropyLen {
		return ErrInsufficientEntropy
	}
	seed := make([]byte, 0, len(entropy)+len(additional))
	seed = append(seed, entropy...)
	seed = append(seed, additional...)
	d.update(seed)
	d.remaining = ReseedInterval
	return nil
}

// State returns copies of the current K and V.
func (d *HMACDRBG) State() (k, v []byte) {
	return append([]byte(nil), d.k...), append([]byte(nil), d.v...)
}

// Read fills p with output from Generate, so an HMACDRBG can stand in for an
// io.Reader such as crypto/rand.Reader.
func (d *HMACDRBG) Read(p []byte) (int, error) {
	out, err := d.Generate(len(p), nil)
	if err != nil {
		return 0, err
	}
	return copy(p, out), nil
}
