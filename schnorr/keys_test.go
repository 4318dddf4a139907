package schnorr

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sr/ristretto"
	"github.com/f3rmion/sr/secp256k1"
)

func TestKeyPairFromSeed(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e *Engine) {
		a, err := e.KeyPairFromSeed(monotonicSeed())
		require.NoError(t, err)
		b, err := e.KeyPairFromSeed(monotonicSeed())
		require.NoError(t, err)
		assert.True(t, a.Public().Equal(b.Public()))
		assert.Len(t, a.Public().Bytes(), e.Group().PointSize())

		other := monotonicSeed()
		other[0] ^= 1
		c, err := e.KeyPairFromSeed(other)
		require.NoError(t, err)
		assert.False(t, a.Public().Equal(c.Public()))
	})
}

func TestKeyPairFromSeedLength(t *testing.T) {
	e := newEngine(t)
	_, err := e.KeyPairFromSeed(make([]byte, SeedSize-1))
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestGoldenPublicKey(t *testing.T) {
	e := newEngine(t)
	kp, err := e.KeyPairFromSeed(monotonicSeed())
	require.NoError(t, err)
	golden(t, "public_key_seed_01_20", kp.Public().Bytes())
}

func TestGoldenMissingFileFails(t *testing.T) {
	_, err := loadGolden("no_such_vector")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoFileExists(t, goldenPath("no_such_vector"))
}

func TestGenerateKey(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e *Engine) {
		a, err := e.GenerateKey()
		require.NoError(t, err)
		b, err := e.GenerateKey()
		require.NoError(t, err)
		assert.False(t, a.Public().Equal(b.Public()))
		assert.False(t, a.Public().Point().IsIdentity())
	})
}

func TestSecretRoundtrip(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e *Engine) {
		kp, err := e.GenerateKey()
		require.NoError(t, err)
		secret, err := kp.SecretBytes()
		require.NoError(t, err)
		require.Len(t, secret, e.Group().ScalarSize())

		restored, err := e.KeyPairFromSecret(secret)
		require.NoError(t, err)
		assert.True(t, restored.Public().Equal(kp.Public()))

		_, err = e.KeyPairFromSecret(make([]byte, e.Group().ScalarSize()))
		assert.ErrorIs(t, err, ErrDegenerateKey)
	})
}

func TestDispose(t *testing.T) {
	e := newEngine(t)
	kp, err := e.KeyPairFromSeed(monotonicSeed())
	require.NoError(t, err)
	backing := kp.secret

	kp.Dispose()
	assert.True(t, kp.Disposed())
	assert.Equal(t, make([]byte, len(backing)), backing)

	_, err = e.Sign(kp, []byte("after dispose"))
	assert.ErrorIs(t, err, ErrKeyPairDisposed)
	_, err = kp.SecretBytes()
	assert.ErrorIs(t, err, ErrKeyPairDisposed)
	_, _, err = e.DeriveHard(kp, ChainCode{})
	assert.ErrorIs(t, err, ErrKeyPairDisposed)

	// Disposal is terminal and idempotent; the public half stays usable.
	kp.Dispose()
	assert.Len(t, kp.Public().Bytes(), 32)
}

func TestParsePublicKey(t *testing.T) {
	e := newEngine(t)
	kp, err := e.GenerateKey()
	require.NoError(t, err)

	pub, err := e.ParsePublicKey(kp.Public().Bytes())
	require.NoError(t, err)
	assert.True(t, pub.Equal(kp.Public()))

	_, err = e.ParsePublicKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestGroupMismatch(t *testing.T) {
	r := newEngine(t, WithGroup(ristretto.New()))
	k := newEngine(t, WithGroup(secp256k1.New()))

	kp, err := r.GenerateKey()
	require.NoError(t, err)
	_, err = k.Sign(kp, []byte("m"))
	assert.ErrorIs(t, err, ErrGroupMismatch)

	sig, err := r.Sign(kp, []byte("m"))
	require.NoError(t, err)
	assert.ErrorIs(t, k.Verify(kp.Public(), []byte("m"), sig), ErrGroupMismatch)
}
