// Package secp256k1 implements [group.Group] over the secp256k1 curve
// using the decred secp256k1 library.
//
// Scalars encode as 32 big-endian bytes. Points use the 33-byte SEC1
// compressed form; the identity, which SEC1 cannot express in compressed
// form, encodes as 33 zero bytes.
package secp256k1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"

	dcr "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/sr/group"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 33
)

var (
	curveOrder = new(big.Int).Set(dcr.S256().Params().N)
	fieldPrime = new(big.Int).Set(dcr.S256().Params().P)
)

// Scalar implements [group.Scalar] with a constant-time mod-N scalar.
type Scalar struct {
	inner dcr.ModNScalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB dcr.ModNScalar
	negB.NegateVal(&b.(*Scalar).inner)
	s.inner.Add2(&a.(*Scalar).inner, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.NegateVal(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.InverseValNonConst(&aScalar.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v >> (8 * i))
	}
	s.inner.SetByteSlice(buf[:])
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.inner.Bytes()
	return b[:]
}

// SetBytes decodes a 32-byte big-endian scalar below the curve order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("%w: scalar length %d, want %d", group.ErrInvalidEncoding, len(data), ScalarSize)
	}
	var buf [ScalarSize]byte
	copy(buf[:], data)
	var v dcr.ModNScalar
	if overflow := v.SetBytes(&buf); overflow != 0 {
		return nil, fmt.Errorf("%w: scalar not reduced", group.ErrInvalidEncoding)
	}
	s.inner.Set(&v)
	return s, nil
}

// SetUniformBytes reduces 64 little-endian bytes modulo the curve order.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if len(data) != group.UniformSize {
		return nil, fmt.Errorf("secp256k1: uniform input length %d, want %d", len(data), group.UniformSize)
	}
	reversed := make([]byte, len(data))
	for i := range data {
		reversed[i] = data[len(data)-1-i]
	}
	v := new(big.Int).SetBytes(reversed)
	v.Mod(v, curveOrder)
	var buf [ScalarSize]byte
	v.FillBytes(buf[:])
	s.inner.SetBytes(&buf)

	clear(reversed)
	clear(buf[:])
	clear(v.Bits())
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Zero overwrites s with zero.
func (s *Scalar) Zero() group.Scalar {
	s.inner.Zero()
	return s
}

// Point implements [group.Point]. The wrapped Jacobian point is kept in
// affine form (Z = 1), or all-zero for the identity.
type Point struct {
	inner dcr.JacobianPoint
}

func (p *Point) normalize() *Point {
	if p.IsIdentity() {
		p.inner.X.Zero()
		p.inner.Y.Zero()
		p.inner.Z.Zero()
		return p
	}
	p.inner.ToAffine()
	return p
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var r dcr.JacobianPoint
	dcr.AddNonConst(&a.(*Point).inner, &b.(*Point).inner, &r)
	p.inner.Set(&r)
	return p.normalize()
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	if p.IsIdentity() {
		return p.normalize()
	}
	p.inner.Y.Negate(1).Normalize()
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var r dcr.JacobianPoint
	dcr.ScalarMultNonConst(&s.(*Scalar).inner, &q.(*Point).inner, &r)
	p.inner.Set(&r)
	return p.normalize()
}

// ScalarBaseMult sets p to s * G and returns p.
func (p *Point) ScalarBaseMult(s group.Scalar) group.Point {
	var r dcr.JacobianPoint
	dcr.ScalarBaseMultNonConst(&s.(*Scalar).inner, &r)
	p.inner.Set(&r)
	return p.normalize()
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 33-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, PointSize)
	}
	return dcr.NewPublicKey(&p.inner.X, &p.inner.Y).SerializeCompressed()
}

// SetBytes decodes a 33-byte compressed point or the all-zero identity.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("%w: point length %d, want %d", group.ErrInvalidEncoding, len(data), PointSize)
	}
	if bytes.Equal(data, make([]byte, PointSize)) {
		p.inner = dcr.JacobianPoint{}
		return p, nil
	}
	pub, err := dcr.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidEncoding, err)
	}
	if !bytes.Equal(pub.SerializeCompressed(), data) {
		return nil, fmt.Errorf("%w: non-canonical point", group.ErrInvalidEncoding)
	}
	pub.AsJacobian(&p.inner)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	q := b.(*Point)
	if p.IsIdentity() || q.IsIdentity() {
		return p.IsIdentity() && q.IsIdentity()
	}
	return p.inner.X.Equals(&q.inner.X) && p.inner.Y.Equals(&q.inner.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return p.inner.Z.IsZero() || (p.inner.X.IsZero() && p.inner.Y.IsZero())
}

// Group implements [group.Group] for secp256k1.
type Group struct{}

// New returns the secp256k1 group.
func New() *Group { return &Group{} }

// Name returns "secp256k1".
func (g *Group) Name() string { return "secp256k1" }

// NewScalar returns a zero scalar.
func (g *Group) NewScalar() group.Scalar { return new(Scalar) }

// NewPoint returns the point at infinity.
func (g *Group) NewPoint() group.Point { return new(Point) }

// Generator returns the standard secp256k1 base point.
func (g *Group) Generator() group.Point {
	var one Scalar
	one.inner.SetInt(1)
	var p Point
	p.ScalarBaseMult(&one)
	return &p
}

// ScalarSize returns 32.
func (g *Group) ScalarSize() int { return ScalarSize }

// PointSize returns 33.
func (g *Group) PointSize() int { return PointSize }

// RandomScalar reads 64 bytes from r and reduces them to a scalar.
func (g *Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.RandomScalar(g, r)
}

// Order returns the curve order as a big-endian byte slice.
func (g *Group) Order() []byte {
	return curveOrder.Bytes()
}

// HashToPoint reduces uniform (little-endian) modulo the field prime and
// returns the point with even y whose x is the first valid coordinate at
// or above it. It runs in variable time, so uniform must not be secret.
func (g *Group) HashToPoint(uniform []byte) (group.Point, error) {
	if len(uniform) != group.UniformSize {
		return nil, fmt.Errorf("secp256k1: uniform input length %d, want %d", len(uniform), group.UniformSize)
	}
	reversed := make([]byte, len(uniform))
	for i := range uniform {
		reversed[i] = uniform[len(uniform)-1-i]
	}
	x := new(big.Int).SetBytes(reversed)
	x.Mod(x, fieldPrime)

	one := big.NewInt(1)
	var buf [32]byte
	for {
		x.FillBytes(buf[:])
		var fx, fy dcr.FieldVal
		fx.SetBytes(&buf)
		if dcr.DecompressY(&fx, false, &fy) {
			var p Point
			p.inner.X.Set(&fx)
			p.inner.Y.Set(fy.Normalize())
			p.inner.Z.SetInt(1)
			return p.normalize(), nil
		}
		x.Add(x, one)
		if x.Cmp(fieldPrime) >= 0 {
			x.SetInt64(0)
		}
	}
}
