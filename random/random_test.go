package random

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	require.NoError(t, Default().Fill(a))
	require.NoError(t, Default().Fill(b))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, make([]byte, 32), a)
}

func TestDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 1

	a, b := NewDeterministic(seed), NewDeterministic(seed)
	x := make([]byte, 48)
	y := make([]byte, 48)
	require.NoError(t, a.Fill(x))
	require.NoError(t, b.Fill(y))
	assert.Equal(t, x, y)

	// The stream advances between calls.
	z := make([]byte, 48)
	require.NoError(t, a.Fill(z))
	assert.NotEqual(t, x, z)

	seed[0] = 2
	w := make([]byte, 48)
	require.NoError(t, NewDeterministic(seed).Fill(w))
	assert.NotEqual(t, x, w)
}

func TestDeterministicKnownAnswer(t *testing.T) {
	tests := []struct {
		key  byte
		want string
	}{
		// First ChaCha20 block for the all-zero key and nonce.
		{0x00, "76b8e0ada0f13d90405d6ae55386bd28bdd219b8a08ded1aa836efcc8b770dc7"},
		{0x42, "a4ddf31f7f32ba696f14ce50ecf3f21e3e100e83bdf47966e7b07468e9500b6e"},
	}
	for _, tc := range tests {
		var seed [32]byte
		for i := range seed {
			seed[i] = tc.key
		}
		got := make([]byte, 32)
		require.NoError(t, NewDeterministic(seed).Fill(got))
		assert.Equal(t, tc.want, hex.EncodeToString(got))
	}
}

func TestDeterministicConcurrent(t *testing.T) {
	d := NewDeterministic([32]byte{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 64)
			assert.NoError(t, d.Fill(buf))
		}()
	}
	wg.Wait()
}

func TestFromReader(t *testing.T) {
	src := FromReader(bytes.NewReader([]byte{1, 2, 3, 4}))
	buf := make([]byte, 3)
	require.NoError(t, src.Fill(buf))
	assert.Equal(t, []byte{1, 2, 3}, buf)

	err := src.Fill(buf)
	assert.ErrorIs(t, err, ErrEntropyUnavailable)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFunc(t *testing.T) {
	src := Func(func(b []byte) error {
		for i := range b {
			b[i] = 0xaa
		}
		return nil
	})
	buf := make([]byte, 4)
	require.NoError(t, src.Fill(buf))
	assert.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa}, buf)

	boom := errors.New("hsm offline")
	err := Func(func([]byte) error { return boom }).Fill(buf)
	assert.ErrorIs(t, err, ErrEntropyUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestFailing(t *testing.T) {
	assert.ErrorIs(t, Failing().Fill(make([]byte, 1)), ErrEntropyUnavailable)
}

func TestReader(t *testing.T) {
	var seed [32]byte
	want := make([]byte, 20)
	require.NoError(t, NewDeterministic(seed).Fill(want))

	got := make([]byte, 20)
	_, err := io.ReadFull(Reader(NewDeterministic(seed)), got)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Reader(Failing()).Read(got)
	assert.ErrorIs(t, err, ErrEntropyUnavailable)
}
