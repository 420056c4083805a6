package drbg

import (
	"hash"
	"math/big"
)

// NonceStream yields the RFC 6979 sequence of candidate nonces for one
// (private key, message digest) pair. The construction is an HMAC_DRBG seeded
// with int2octets(x) and bits2octets(h1).
type NonceStream struct {
	drbg *HMACDRBG
	q    *big.Int
	qlen int
}

// NewNonceStream prepares the RFC 6979 generator for group order q, private
// scalar x and message digest h1.
func NewNonceStream(newHash func() hash.Hash, q, x *big.Int, h1 []byte) *NonceStream {
	qlen := q.BitLen()
	rolen := (qlen + 7) / 8

	entropy := int2octets(x, rolen)
	nonce := int2octets(new(big.Int).Mod(Bits2Int(h1, qlen), q), rolen)

	// int2octets(x) is shorter than MinEntropyLen for groups below 192 bits,
	// so the entropy check of New does not apply here.
	d := instantiate(newHash)
	d.update(append(entropy, nonce...))

	return &NonceStream{drbg: d, q: new(big.Int).Set(q), qlen: qlen}
}

// Next returns the next candidate k in [1, q). Each call after the first
// continues the stream, which is what a signer needs when a nonce produces
// r = 0 or s = 0.
func (s *NonceStream) Next() *big.Int {
	rolen := (s.qlen + 7) / 8
	for {
		t, err := s.drbg.Generate(rolen, nil)
		if err != nil {
			// Only reachable after 2^48 candidates.
			panic(err)
		}
		k := Bits2Int(t, s.qlen)
		if k.Sign() > 0 && k.Cmp(s.q) < 0 {
			return k
		}
	}
}

// DeterministicNonce returns the first RFC 6979 nonce for (x, h1).
func DeterministicNonce(newHash func() hash.Hash, q, x *big.Int, h1 []byte) *big.Int {
	return NewNonceStream(newHash, q, x, h1).Next()
}

// Bits2Int converts b to an integer and keeps its leftmost qlen bits.
func Bits2Int(b []byte, qlen int) *big.Int {
	v := new(big.Int).SetBytes(b)
	if blen := len(b) * 8; blen > qlen {
		v.Rsh(v, uint(blen-qlen))
	}
	return v
}

func int2octets(v *big.Int, rolen int) []byte {
	return v.FillBytes(make([]byte, rolen))
}
