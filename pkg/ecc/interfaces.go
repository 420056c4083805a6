package ecc

// Scheme is the byte-oriented surface shared by the signature schemes.
// Keys and signatures cross it in their canonical encodings so that callers
// such as the CLI and the wasm bindings need not know the concrete types.
type Scheme interface {
	// Name returns the scheme identifier (e.g., "ecdsa").
	Name() string

	// Curve returns the name of the curve the scheme operates on.
	Curve() string

	// Sign signs a message digest with a raw 32-byte private key.
	// The returned signature uses the scheme's canonical encoding.
	Sign(digest, privateKey []byte) ([]byte, error)

	// Verify reports whether signature is valid for digest under the
	// compressed or uncompressed public key.
	// A rejected signature is reported as false with a nil error; the error
	// is reserved for inputs that cannot be decoded.
	Verify(digest, signature, publicKey []byte) (bool, error)
}

// Parameters holds the configuration for a signing session.
type Parameters struct {
	Scheme string // "ecdsa" or "schnorr"
	Curve  string // The elliptic curve to use (e.g., "secp256k1")
	Hash   string // The digest algorithm (e.g., "sha256")
	Nonce  string // "rfc6979" (default) or "random"; ECDSA only
	LowS   *bool  // Force low-S normalization on or off; nil uses the curve default
}

// SchemeInitializer builds a Scheme from its parameters.
type SchemeInitializer func(params *Parameters) (Scheme, error)
