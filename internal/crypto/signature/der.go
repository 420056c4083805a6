package signature

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const (
	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02

	// Both integers of a 256-bit signature fit in 33 bytes, so every length
	// is a single short-form byte.
	minDERLen     = 8
	maxDERLen     = 72
	maxIntegerLen = 33
)

func derError(format string, args ...interface{}) error {
	return ecc.NewError(ecc.ErrMalformedEncoding, "signature: malformed DER: "+fmt.Sprintf(format, args...))
}

// EncodeDER serializes the signature as SEQUENCE { INTEGER r, INTEGER s } with
// minimal-length integers.
func (sig *Signature) EncodeDER() []byte {
	r := derInteger(sig.R)
	s := derInteger(sig.S)

	b := make([]byte, 0, 6+len(r)+len(s))
	b = append(b, asn1SequenceID, byte(4+len(r)+len(s)))
	b = append(b, asn1IntegerID, byte(len(r)))
	b = append(b, r...)
	b = append(b, asn1IntegerID, byte(len(s)))
	b = append(b, s...)
	return b
}

// derInteger returns the minimal big-endian form of v, with a leading zero
// byte when the high bit would otherwise mark it negative.
func derInteger(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		return append([]byte{0x00}, b...)
	}
	return b
}

// ParseDER parses a DER signature, rejecting anything that is not the unique
// minimal encoding of two positive integers.
func ParseDER(der []byte) (*Signature, error) {
	// 0x30 <len> 0x02 <rlen> <r> 0x02 <slen> <s>
	const (
		dataLenOffset = 1
		rTypeOffset   = 2
		rLenOffset    = 3
		rOffset       = 4
	)

	n := len(der)
	if n < minDERLen {
		return nil, derError("too short: %d < %d", n, minDERLen)
	}
	if n > maxDERLen {
		return nil, derError("too long: %d > %d", n, maxDERLen)
	}
	if der[0] != asn1SequenceID {
		return nil, derError("wrong sequence tag %#x", der[0])
	}
	if int(der[dataLenOffset]) != n-2 {
		return nil, derError("sequence length %d != %d", der[dataLenOffset], n-2)
	}

	rLen := int(der[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sLenOffset >= n {
		return nil, derError("s is missing")
	}
	sOffset := sLenOffset + 1
	sLen := int(der[sLenOffset])
	if sOffset+sLen != n {
		return nil, derError("s length %d does not match the sequence", sLen)
	}

	r, err := parseInteger(der[rTypeOffset], der[rOffset:rOffset+rLen], "r")
	if err != nil {
		return nil, err
	}
	s, err := parseInteger(der[sTypeOffset], der[sOffset:sOffset+sLen], "s")
	if err != nil {
		return nil, err
	}
	return &Signature{R: r, S: s}, nil
}

func parseInteger(tag byte, b []byte, name string) (*big.Int, error) {
	// 1. The element must be an INTEGER.
	if tag != asn1IntegerID {
		return nil, derError("%s has tag %#x, want %#x", name, tag, asn1IntegerID)
	}

	// 2. It must be non-empty and fit a 256-bit value plus a sign byte.
	if len(b) == 0 {
		return nil, derError("%s has zero length", name)
	}
	if len(b) > maxIntegerLen {
		return nil, derError("%s is longer than %d bytes", name, maxIntegerLen)
	}

	// 3. It must be positive and minimally encoded.
	if b[0]&0x80 != 0 {
		return nil, derError("%s is negative", name)
	}
	if len(b) > 1 && b[0] == 0x00 && b[1]&0x80 == 0 {
		return nil, derError("%s has excess padding", name)
	}

	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 {
		return nil, ecc.NewError(ecc.ErrInvalidScalarRange, fmt.Sprintf("signature: %s is zero", name))
	}
	return v, nil
}
