package signature

import (
	"encoding/hex"
	"fmt"

	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

// Message is a digest together with the algorithm that produced it. Signers
// only ever see the digest.
type Message struct {
	digest []byte
	alg    hashes.Algorithm
}

// NewMessage wraps an existing digest. When alg is known the digest length
// must match it.
func NewMessage(digest []byte, alg hashes.Algorithm) (*Message, error) {
	if len(digest) == 0 {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, "signature: empty message digest")
	}
	if alg.Available() && len(digest) != alg.Size() {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding,
			fmt.Sprintf("signature: %v digest must be %d bytes, got %d", alg, alg.Size(), len(digest)))
	}
	return &Message{digest: append([]byte(nil), digest...), alg: alg}, nil
}

// MessageFromHex wraps a hex-encoded digest.
func MessageFromHex(s string, alg hashes.Algorithm) (*Message, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ecc.NewError(ecc.ErrMalformedEncoding, fmt.Sprintf("signature: invalid hex digest: %v", err))
	}
	return NewMessage(b, alg)
}

// HashMessage hashes data with alg.
func HashMessage(data []byte, alg hashes.Algorithm) *Message {
	return &Message{digest: alg.Sum(data), alg: alg}
}

// MessageFromString hashes the UTF-8 bytes of s with alg.
func MessageFromString(s string, alg hashes.Algorithm) *Message {
	return HashMessage([]byte(s), alg)
}

// Digest returns a copy of the digest bytes.
func (m *Message) Digest() []byte { return append([]byte(nil), m.digest...) }

func (m *Message) Algorithm() hashes.Algorithm { return m.alg }

func (m *Message) String() string {
	return fmt.Sprintf("%v:%x", m.alg, m.digest)
}
