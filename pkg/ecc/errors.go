package ecc

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInsufficientEntropy is returned when a DRBG is instantiated or
	// reseeded with less entropy than the hash function's security strength
	// requires.
	ErrInsufficientEntropy = ErrorKind("ErrInsufficientEntropy")

	// ErrReseedRequired is returned when a DRBG has exhausted its reseed
	// interval and must be reseeded before generating more output.
	ErrReseedRequired = ErrorKind("ErrReseedRequired")

	// ErrInvalidScalarRange is returned when a private key, nonce or
	// challenge falls outside of its valid range.
	ErrInvalidScalarRange = ErrorKind("ErrInvalidScalarRange")

	// ErrMalformedEncoding is returned for wrong byte lengths, bad prefix
	// tags and DER structural violations.
	ErrMalformedEncoding = ErrorKind("ErrMalformedEncoding")

	// ErrPointNotOnCurve is returned when coordinates do not satisfy the
	// curve equation.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrNoSquareRoot is returned when decompressing an x coordinate for
	// which x³ + ax + b is not a quadratic residue.
	ErrNoSquareRoot = ErrorKind("ErrNoSquareRoot")

	// ErrNotInvertible is returned when a value shares a factor with the
	// modulus.
	ErrNotInvertible = ErrorKind("ErrNotInvertible")

	// ErrUnsupportedCurve is returned when an operation is requested on a
	// curve whose group law is not available for that operation.
	ErrUnsupportedCurve = ErrorKind("ErrUnsupportedCurve")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to elliptic curve operations. It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error given a set of arguments.
func NewError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
