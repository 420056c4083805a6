// Package hashes is the hash-function capability consumed by messages, the
// DRBG and the signature schemes.
package hashes

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for Hash160
	"golang.org/x/crypto/sha3"
)

// Algorithm is an identifier for a hashing algorithm.
type Algorithm int

const (
	// Supported hashing algorithms
	UnknownAlgorithm Algorithm = iota
	SHA2_256
	SHA2_512
	DoubleSHA2_256
	SHA3_256
	Keccak256
	RIPEMD160
	Hash160 // RIPEMD-160(SHA-256(x))
)

var names = [...]string{"UNKNOWN", "SHA2_256", "SHA2_512", "DOUBLE_SHA2_256", "SHA3_256", "KECCAK_256", "RIPEMD160", "HASH160"}

// String returns the string representation of this hashing algorithm.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(names) {
		return names[UnknownAlgorithm]
	}
	return names[a]
}

// Parse resolves an algorithm from its name. Matching ignores case, dashes and
// underscores, so "sha256", "SHA-256" and "SHA2_256" are equivalent.
func Parse(s string) (Algorithm, error) {
	switch normalize(s) {
	case "sha256", "sha2256":
		return SHA2_256, nil
	case "sha512", "sha2512":
		return SHA2_512, nil
	case "doublesha256", "doublesha2256", "sha256d":
		return DoubleSHA2_256, nil
	case "sha3256":
		return SHA3_256, nil
	case "keccak256":
		return Keccak256, nil
	case "ripemd160":
		return RIPEMD160, nil
	case "hash160":
		return Hash160, nil
	}
	return UnknownAlgorithm, fmt.Errorf("hashes: unknown algorithm %q", s)
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	switch a {
	case SHA2_256, DoubleSHA2_256, SHA3_256, Keccak256:
		return 32
	case SHA2_512:
		return 64
	case RIPEMD160, Hash160:
		return 20
	}
	return 0
}

// Available reports whether a is a known algorithm.
func (a Algorithm) Available() bool {
	return a.Size() != 0
}

// New returns a new hash.Hash computing a. It panics for unknown algorithms.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA2_256:
		return sha256.New()
	case SHA2_512:
		return sha512.New()
	case DoubleSHA2_256:
		return &chained{outer: sha256.New(), inner: sha256.New()}
	case SHA3_256:
		return sha3.New256()
	case Keccak256:
		return sha3.NewLegacyKeccak256()
	case RIPEMD160:
		return ripemd160.New()
	case Hash160:
		return &chained{outer: ripemd160.New(), inner: sha256.New()}
	}
	panic(fmt.Sprintf("hashes: unavailable algorithm %v", a))
}

// HashFunc returns a constructor usable with crypto/hmac.
func (a Algorithm) HashFunc() func() hash.Hash {
	a.New() // fail fast on unknown algorithms
	return a.New
}

// Sum hashes data in one call.
func (a Algorithm) Sum(data []byte) []byte {
	h := a.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// chained computes outer(inner(x)).
type chained struct {
	outer, inner hash.Hash
}

func (c *chained) Write(p []byte) (int, error) { return c.inner.Write(p) }

func (c *chained) Sum(b []byte) []byte {
	c.outer.Reset()
	_, _ = c.outer.Write(c.inner.Sum(nil))
	return c.outer.Sum(b)
}

func (c *chained) Reset() {
	c.inner.Reset()
	c.outer.Reset()
}

func (c *chained) Size() int { return c.outer.Size() }

func (c *chained) BlockSize() int { return c.inner.BlockSize() }
