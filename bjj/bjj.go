package bjj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/sr/group"
)

const (
	// ScalarSize is the length of an encoded scalar.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 32
)

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

// Scalar represents an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] using big.Int with modular arithmetic
// over the curve's subgroup order.
//
// All arithmetic operations automatically reduce results modulo the
// curve order to maintain valid scalar values.
type Scalar struct {
	inner *big.Int
}

// newScalar creates a new scalar initialized to zero.
func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

// reduce ensures the scalar is in the range [0, curveOrder).
func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
// Returns an error if a is zero, as zero has no multiplicative inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, curveOrder)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	s.inner.SetUint64(v)
	s.reduce()
	return s
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *Scalar) Bytes() []byte {
	return s.inner.FillBytes(make([]byte, ScalarSize))
}

// SetBytes sets s from a 32-byte big-endian encoding and returns s.
// Values not below the curve order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("%w: scalar length %d, want %d", group.ErrInvalidEncoding, len(data), ScalarSize)
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(curveOrder) >= 0 {
		return nil, fmt.Errorf("%w: scalar not reduced", group.ErrInvalidEncoding)
	}
	s.inner.Set(v)
	return s, nil
}

// SetUniformBytes interprets 64 bytes as a little-endian integer and
// reduces it modulo the curve order.
func (s *Scalar) SetUniformBytes(data []byte) (group.Scalar, error) {
	if len(data) != group.UniformSize {
		return nil, fmt.Errorf("bjj: uniform input length %d, want %d", len(data), group.UniformSize)
	}

	// Reverse bytes for little-endian interpretation
	reversed := make([]byte, len(data))
	for i := 0; i < len(data); i++ {
		reversed[i] = data[len(data)-1-i]
	}
	s.inner.SetBytes(reversed)
	clear(reversed)
	s.reduce()
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Zero wipes the limbs backing s and sets it to zero.
func (s *Scalar) Zero() group.Scalar {
	clear(s.inner.Bits())
	s.inner.SetInt64(0)
	return s
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// Points are represented in affine coordinates (x, y) on the twisted
// Edwards curve. The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner)
	return p
}

// ScalarBaseMult sets p to s * G and returns p.
func (p *Point) ScalarBaseMult(s group.Scalar) group.Point {
	base := twistededwards.GetEdwardsCurve().Base
	p.inner.ScalarMultiplication(&base, s.(*Scalar).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the compressed point encoding as a byte slice.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// The encoding must be canonical and the point must lie in the
// prime-order subgroup.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("%w: point length %d, want %d", group.ErrInvalidEncoding, len(data), PointSize)
	}
	var q twistededwards.PointAffine
	if err := q.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidEncoding, err)
	}
	if !q.IsOnCurve() {
		return nil, fmt.Errorf("%w: point not on curve", group.ErrInvalidEncoding)
	}
	var t twistededwards.PointAffine
	t.ScalarMultiplication(&q, curveOrder)
	if !t.IsZero() {
		return nil, fmt.Errorf("%w: point outside prime-order subgroup", group.ErrInvalidEncoding)
	}
	if enc := q.Bytes(); !bytes.Equal(enc[:], data) {
		return nil, fmt.Errorf("%w: non-canonical point", group.ErrInvalidEncoding)
	}
	p.inner.Set(&q)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type that provides access to Baby Jubjub curve
// operations. Create an instance with &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "babyjubjub".
func (g *BJJ) Name() string { return "babyjubjub" }

// NewScalar returns a new scalar initialized to zero.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// ScalarSize returns 32.
func (g *BJJ) ScalarSize() int { return ScalarSize }

// PointSize returns 32.
func (g *BJJ) PointSize() int { return PointSize }

// RandomScalar generates a cryptographically random scalar using the
// provided random source. 64 bytes are reduced so the result is
// statistically uniform in [0, curveOrder).
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.RandomScalar(g, r)
}

// Order returns the order of the Baby Jubjub curve's prime-order subgroup
// as a big-endian byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}

// HashToPoint maps uniform to the prime-order subgroup. The input,
// read little-endian and reduced modulo the base field, is a candidate
// y coordinate; it is incremented until the curve equation yields an x,
// and the cofactor is then cleared. It runs in variable time, so uniform
// must not be secret.
func (g *BJJ) HashToPoint(uniform []byte) (group.Point, error) {
	if len(uniform) != group.UniformSize {
		return nil, fmt.Errorf("bjj: uniform input length %d, want %d", len(uniform), group.UniformSize)
	}
	reversed := make([]byte, len(uniform))
	for i := range uniform {
		reversed[i] = uniform[len(uniform)-1-i]
	}
	v := new(big.Int).SetBytes(reversed)
	v.Mod(v, fr.Modulus())

	curve := twistededwards.GetEdwardsCurve()
	cofactor := curve.Cofactor.BigInt(new(big.Int))

	var y, one fr.Element
	y.SetBigInt(v)
	one.SetOne()
	// a*x^2 + y^2 = 1 + d*x^2*y^2  =>  x^2 = (1 - y^2) / (a - d*y^2)
	for ; ; y.Add(&y, &one) {
		var y2, num, den, x fr.Element
		y2.Square(&y)
		num.Sub(&one, &y2)
		den.Mul(&curve.D, &y2)
		den.Sub(&curve.A, &den)
		if den.IsZero() {
			continue
		}
		num.Div(&num, &den)
		if x.Sqrt(&num) == nil {
			continue
		}
		q := twistededwards.NewPointAffine(x, y)
		if !q.IsOnCurve() {
			continue
		}
		var p Point
		p.inner.ScalarMultiplication(&q, cofactor)
		if p.inner.IsZero() {
			continue
		}
		return &p, nil
	}
}
