package keystore

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/schnorr"
	"github.com/f3rmion/sr/secp256k1"
)

func seed() []byte {
	s := make([]byte, schnorr.SeedSize)
	for i := range s {
		s[i] = byte(i + 1)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	e, err := schnorr.New()
	require.NoError(t, err)

	f, err := New(e, seed())
	require.NoError(t, err)
	assert.Equal(t, "ristretto255", f.Curve)
	assert.Equal(t, "sha512", f.Hash)

	path := filepath.Join(t.TempDir(), "key.yaml")
	require.NoError(t, Write(path, f))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
	}

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)

	kp, err := loaded.KeyPair(e)
	require.NoError(t, err)
	defer kp.Dispose()

	want, err := e.KeyPairFromSeed(seed())
	require.NoError(t, err)
	assert.True(t, want.Public().Equal(kp.Public()))

	pub, err := loaded.Public(e)
	require.NoError(t, err)
	assert.True(t, pub.Equal(kp.Public()))
}

func TestWriteRefusesOverwrite(t *testing.T) {
	e, err := schnorr.New()
	require.NoError(t, err)
	f, err := New(e, seed())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.yaml")
	require.NoError(t, Write(path, f))
	assert.ErrorIs(t, Write(path, f), fs.ErrExist)
}

func TestKeyPairMismatch(t *testing.T) {
	e, err := schnorr.New()
	require.NoError(t, err)
	f, err := New(e, seed())
	require.NoError(t, err)

	other, err := schnorr.New(schnorr.WithGroup(secp256k1.New()))
	require.NoError(t, err)
	_, err = f.KeyPair(other)
	assert.ErrorIs(t, err, ErrMismatch)
	_, err = f.Public(other)
	assert.ErrorIs(t, err, ErrMismatch)

	blake, err := schnorr.New(schnorr.WithHash(digest.Blake2b512()))
	require.NoError(t, err)
	_, err = f.KeyPair(blake)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestKeyPairCorrupt(t *testing.T) {
	e, err := schnorr.New()
	require.NoError(t, err)

	f, err := New(e, seed())
	require.NoError(t, err)
	otherSeed := seed()
	otherSeed[0] ^= 0xff
	other, err := New(e, otherSeed)
	require.NoError(t, err)
	f.PublicKey = other.PublicKey
	_, err = f.KeyPair(e)
	assert.ErrorIs(t, err, ErrCorrupt)

	f, err = New(e, seed())
	require.NoError(t, err)
	f.Seed = "zz"
	_, err = f.KeyPair(e)
	assert.ErrorIs(t, err, ErrCorrupt)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [\n"), 0o600))
	_, err = Read(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}
