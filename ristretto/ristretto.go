// Package ristretto implements [group.Group] over ristretto255, the
// prime-order group built on Curve25519 that sr25519 signatures use.
//
// This is the default group of the schnorr package. Scalars and
// elements both encode to 32 bytes; scalars are little-endian.
package ristretto

import (
	"errors"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"

	"github.com/f3rmion/sr/group"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of an encoded element.
	PointSize = 32
)

// order is l = 2^252 + 27742317777372353535851937790883648493, big-endian.
var order = []byte{
	0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6,
	0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
}

// Scalar implements [group.Scalar] by wrapping a ristretto255 scalar.
type Scalar struct {
	inner *ristretto255.Scalar
}

func newScalar() *Scalar {
	return &Scalar{inner: ristretto255.NewScalar()}
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.Invert(aScalar.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, ristretto255.NewScalar())
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [ScalarSize]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	// v < 2^64 is always canonical.
	if _, err := s.inner.SetCanonicalBytes(buf[:]); err != nil {
		panic(err)
	}
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes decodes a canonical 32-byte little-endian scalar.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("%w: scalar length %d, want %d", group.ErrInvalidEncoding, len(data), ScalarSize)
	}
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidEncoding, err)
	}
	return s, nil
}

// SetUniformBytes reduces 64 little-endian bytes modulo the group order.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if len(data) != group.UniformSize {
		return nil, fmt.Errorf("ristretto: uniform input length %d, want %d", len(data), group.UniformSize)
	}
	if _, err := s.inner.SetUniformBytes(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(b.(*Scalar).inner) == 1
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(ristretto255.NewScalar()) == 1
}

// Zero sets s to zero, overwriting its limbs in place.
func (s *Scalar) Zero() group.Scalar {
	s.inner.Zero()
	return s
}

// Point implements [group.Point] by wrapping a ristretto255 element.
type Point struct {
	inner *ristretto255.Element
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(s.(*Scalar).inner, q.(*Point).inner)
	return p
}

// ScalarBaseMult sets p to s * G and returns p.
func (p *Point) ScalarBaseMult(s group.Scalar) group.Point {
	p.inner.ScalarBaseMult(s.(*Scalar).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, ristretto255.NewIdentityElement())
	return p
}

// Bytes returns the 32-byte canonical encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes decodes a canonical 32-byte ristretto255 encoding.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("%w: point length %d, want %d", group.ErrInvalidEncoding, len(data), PointSize)
	}
	if _, err := p.inner.SetCanonicalBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidEncoding, err)
	}
	return p, nil
}

// Equal reports whether p and b are the same element.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(ristretto255.NewIdentityElement()) == 1
}

// Group implements [group.Group] for ristretto255.
type Group struct{}

// New returns the ristretto255 group.
func New() *Group { return &Group{} }

// Name returns "ristretto255".
func (g *Group) Name() string { return "ristretto255" }

// NewScalar returns a zero scalar.
func (g *Group) NewScalar() group.Scalar { return newScalar() }

// NewPoint returns the identity element.
func (g *Group) NewPoint() group.Point {
	return &Point{inner: ristretto255.NewIdentityElement()}
}

// Generator returns the canonical ristretto255 generator.
func (g *Group) Generator() group.Point {
	return &Point{inner: ristretto255.NewGeneratorElement()}
}

// ScalarSize returns 32.
func (g *Group) ScalarSize() int { return ScalarSize }

// PointSize returns 32.
func (g *Group) PointSize() int { return PointSize }

// RandomScalar reads 64 bytes from r and reduces them to a scalar.
func (g *Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.RandomScalar(g, r)
}

// Order returns the group order as a big-endian byte slice.
func (g *Group) Order() []byte {
	return append([]byte(nil), order...)
}

// HashToPoint applies the RFC 9496 element derivation to uniform.
func (g *Group) HashToPoint(uniform []byte) (group.Point, error) {
	e, err := ristretto255.NewIdentityElement().SetUniformBytes(uniform)
	if err != nil {
		return nil, err
	}
	return &Point{inner: e}, nil
}
