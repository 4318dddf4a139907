package group

import (
	"errors"
	"io"
)

// ErrInvalidEncoding is returned (possibly wrapped) by SetBytes when the
// input does not decode to a canonical element.
var ErrInvalidEncoding = errors.New("group: invalid encoding")

// UniformSize is the length of the input accepted by
// [Scalar.SetUniformBytes].
const UniformSize = 64

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order and
// are used as exponents in scalar multiplication.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it. This allows for
// efficient method chaining while minimizing memory allocations.
//
// Implementations must ensure all operations produce results in the
// valid range [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// SetUint64 sets the receiver to v and returns it.
	SetUint64(v uint64) Scalar
	// Bytes returns the canonical fixed-width encoding of the scalar.
	Bytes() []byte
	// SetBytes decodes a canonical encoding into the receiver and
	// returns it. Wrong lengths and values outside [0, order) are
	// rejected with an error wrapping [ErrInvalidEncoding].
	SetBytes(data []byte) (Scalar, error)
	// SetUniformBytes sets the receiver to the little-endian integer in
	// data reduced modulo the order. data must be [UniformSize] bytes.
	SetUniformBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
	// Zero overwrites the receiver with zero and returns it.
	Zero() Scalar
}

// Point represents an element of a cryptographic group, typically a point
// on an elliptic curve. Points support addition, subtraction, negation,
// and scalar multiplication.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern
// for efficiency.
//
// The identity element (zero point, point at infinity) is the additive
// identity: P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// ScalarBaseMult sets the receiver to s*G and returns it.
	ScalarBaseMult(s Scalar) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical fixed-width encoding of the point.
	Bytes() []byte
	// SetBytes decodes a canonical encoding into the receiver and
	// returns it. Invalid encodings and points outside the prime-order
	// group are rejected with an error wrapping [ErrInvalidEncoding].
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group defines a prime-order cryptographic group suitable for Schnorr
// signatures. It provides factory methods for creating scalars and points,
// access to the group's generator, and encoding sizes.
//
// A Group implementation encapsulates all curve-specific details, allowing
// the signature code to be generic over different elliptic curves.
//
// Example usage:
//
//	g := ristretto.New()  // or any other Group implementation
//	scalar, _ := g.RandomScalar(rand.Reader)
//	point := g.NewPoint().ScalarBaseMult(scalar)
type Group interface {
	// Name returns a stable identifier such as "ristretto255".
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// ScalarSize is the length of [Scalar.Bytes].
	ScalarSize() int
	// PointSize is the length of [Point.Bytes].
	PointSize() int
	// RandomScalar returns a uniformly random scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
	// HashToPoint deterministically maps [UniformSize] uniform bytes to
	// a non-identity element with no known discrete logarithm.
	HashToPoint(uniform []byte) (Point, error)
}

// RandomScalar reads [UniformSize] bytes from r and reduces them into a
// scalar of g. Backends use it to implement [Group.RandomScalar].
func RandomScalar(g Group, r io.Reader) (Scalar, error) {
	var buf [UniformSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s, err := g.NewScalar().SetUniformBytes(buf[:])
	clear(buf[:])
	return s, err
}
