package ristretto

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sr/group"
)

var _ group.Group = (*Group)(nil)

func TestGeneratorEncoding(t *testing.T) {
	g := New()
	assert.Equal(t,
		"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76",
		hex.EncodeToString(g.Generator().Bytes()))
	assert.Equal(t, make([]byte, PointSize), g.NewPoint().Bytes())
}

func TestGeneratorMultiples(t *testing.T) {
	g := New()
	want := []string{
		"6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919",
		"94741f5d5d52755ece4f23f044ee27d5d1ea1e2bd196b462166b16152a9d0259",
	}
	for i, w := range want {
		k := g.NewScalar().SetUint64(uint64(i + 2))
		assert.Equal(t, w, hex.EncodeToString(g.NewPoint().ScalarBaseMult(k).Bytes()), "%d*G", i+2)
	}
}

func TestScalar(t *testing.T) {
	g := New()

	t.Run("AddSub", func(t *testing.T) {
		a, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		b, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)

		sum := g.NewScalar().Add(a, b)
		assert.True(t, g.NewScalar().Sub(sum, b).Equal(a))
	})

	t.Run("MulInvert", func(t *testing.T) {
		a, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		aInv, err := g.NewScalar().Invert(a)
		require.NoError(t, err)
		one := g.NewScalar().SetUint64(1)
		assert.True(t, g.NewScalar().Mul(a, aInv).Equal(one))
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		_, err := g.NewScalar().Invert(g.NewScalar())
		assert.Error(t, err)
	})

	t.Run("Set", func(t *testing.T) {
		a, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		b := g.NewScalar().Set(a)
		a.Zero()
		assert.False(t, b.IsZero(), "Set must copy, not alias")
	})

	t.Run("SetUint64", func(t *testing.T) {
		s := g.NewScalar().SetUint64(0x0102)
		want := make([]byte, ScalarSize)
		want[0], want[1] = 0x02, 0x01
		assert.Equal(t, want, s.Bytes())
	})

	t.Run("RejectsNonCanonical", func(t *testing.T) {
		le := slices.Clone(order)
		slices.Reverse(le)
		_, err := g.NewScalar().SetBytes(le)
		assert.ErrorIs(t, err, group.ErrInvalidEncoding)

		_, err = g.NewScalar().SetBytes(make([]byte, ScalarSize+1))
		assert.ErrorIs(t, err, group.ErrInvalidEncoding)
	})

	t.Run("UniformLength", func(t *testing.T) {
		_, err := g.NewScalar().SetUniformBytes(make([]byte, 32))
		assert.Error(t, err)
	})

	t.Run("Zero", func(t *testing.T) {
		a, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		a.Zero()
		assert.True(t, a.IsZero())
		assert.Equal(t, make([]byte, ScalarSize), a.Bytes())
	})
}

func TestPoint(t *testing.T) {
	g := New()

	t.Run("AddSub", func(t *testing.T) {
		s1, _ := g.RandomScalar(rand.Reader)
		s2, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarBaseMult(s1)
		Q := g.NewPoint().ScalarBaseMult(s2)

		sum := g.NewPoint().Add(P, Q)
		assert.True(t, g.NewPoint().Sub(sum, Q).Equal(P))
	})

	t.Run("Negate", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarBaseMult(s)
		assert.True(t, g.NewPoint().Add(P, g.NewPoint().Negate(P)).IsIdentity())
	})

	t.Run("BaseMultMatchesScalarMult", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		assert.True(t, g.NewPoint().ScalarBaseMult(s).Equal(g.NewPoint().ScalarMult(s, g.Generator())))
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		s, _ := g.RandomScalar(rand.Reader)
		P := g.NewPoint().ScalarBaseMult(s)
		restored, err := g.NewPoint().SetBytes(P.Bytes())
		require.NoError(t, err)
		assert.True(t, restored.Equal(P))
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		bad := make([]byte, PointSize)
		for i := range bad {
			bad[i] = 0xff
		}
		_, err := g.NewPoint().SetBytes(bad)
		assert.ErrorIs(t, err, group.ErrInvalidEncoding)

		_, err = g.NewPoint().SetBytes(bad[:10])
		assert.ErrorIs(t, err, group.ErrInvalidEncoding)
	})
}

func TestHashToPoint(t *testing.T) {
	g := New()
	u := make([]byte, group.UniformSize)
	_, err := rand.Read(u)
	require.NoError(t, err)

	a, err := g.HashToPoint(u)
	require.NoError(t, err)
	b, err := g.HashToPoint(slices.Clone(u))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.False(t, a.IsIdentity())
	assert.False(t, a.Equal(g.Generator()))

	u[0] ^= 1
	c, err := g.HashToPoint(u)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	_, err = g.HashToPoint(u[:32])
	assert.Error(t, err)
}
