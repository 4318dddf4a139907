package schnorr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainCode(b byte) ChainCode {
	var cc ChainCode
	cc[0] = b
	return cc
}

func TestDeriveHard(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e *Engine) {
		kp, err := e.KeyPairFromSeed(monotonicSeed())
		require.NoError(t, err)

		a, nextA, err := e.DeriveHard(kp, chainCode(1))
		require.NoError(t, err)
		b, nextB, err := e.DeriveHard(kp, chainCode(1))
		require.NoError(t, err)
		assert.True(t, a.Public().Equal(b.Public()))
		assert.Equal(t, nextA, nextB)

		c, nextC, err := e.DeriveHard(kp, chainCode(2))
		require.NoError(t, err)
		assert.False(t, a.Public().Equal(c.Public()))
		assert.NotEqual(t, nextA, nextC)
		assert.False(t, a.Public().Equal(kp.Public()))

		sig, err := e.Sign(a, []byte("child"))
		require.NoError(t, err)
		assert.NoError(t, e.Verify(a.Public(), []byte("child"), sig))
	})
}

func TestDeriveSoftMatchesPublic(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e *Engine) {
		kp, err := e.KeyPairFromSeed(monotonicSeed())
		require.NoError(t, err)
		cc := chainCode(9)

		child, next, err := e.DeriveSoft(kp, cc)
		require.NoError(t, err)
		pub, pubNext, err := e.DerivePublicSoft(kp.Public(), cc)
		require.NoError(t, err)

		assert.True(t, child.Public().Equal(pub))
		assert.Equal(t, next, pubNext)
		assert.False(t, pub.Equal(kp.Public()))

		sig, err := e.Sign(child, []byte("soft"))
		require.NoError(t, err)
		assert.NoError(t, e.Verify(pub, []byte("soft"), sig))
	})
}

func TestDeriveSoftChain(t *testing.T) {
	e := newEngine(t)
	kp, err := e.KeyPairFromSeed(monotonicSeed())
	require.NoError(t, err)

	secret, cc := kp, chainCode(0)
	public, pcc := kp.Public(), chainCode(0)
	for range 3 {
		secret, cc, err = e.DeriveSoft(secret, cc)
		require.NoError(t, err)
		public, pcc, err = e.DerivePublicSoft(public, pcc)
		require.NoError(t, err)
	}
	assert.True(t, secret.Public().Equal(public))
	assert.Equal(t, cc, pcc)
}

func TestDeriveRejectsDisposedAndEmpty(t *testing.T) {
	e := newEngine(t)
	kp, err := e.GenerateKey()
	require.NoError(t, err)
	kp.Dispose()

	_, _, err = e.DeriveSoft(kp, ChainCode{})
	assert.ErrorIs(t, err, ErrKeyPairDisposed)
	_, _, err = e.DerivePublicSoft(PublicKey{}, ChainCode{})
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}
