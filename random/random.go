// Package random defines the randomness source consumed by key
// generation and signing.
//
// Two kinds of source are interchangeable wherever a [Source] is
// accepted: the default, backed by the operating system's entropy, and
// custom sources supplied by the caller through [Func], [FromReader] or
// [NewDeterministic].
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// ErrEntropyUnavailable is wrapped by every error a [Source] returns.
var ErrEntropyUnavailable = errors.New("entropy unavailable")

// Source fills buffers with bytes indistinguishable from uniform.
//
// Sources are safe for concurrent use only if the implementation says
// so; the stock ones do.
type Source interface {
	Fill(b []byte) error
}

type osSource struct{}

func (osSource) Fill(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}
	return nil
}

// Default returns the operating-system entropy source. It is safe for
// concurrent use.
func Default() Source { return osSource{} }

// Func adapts a caller-supplied fill function, such as a hardware RNG
// binding, to [Source]. Errors are wrapped with [ErrEntropyUnavailable].
type Func func(b []byte) error

// Fill calls f(b).
func (f Func) Fill(b []byte) error {
	if err := f(b); err != nil {
		return wrap(err)
	}
	return nil
}

type readerSource struct {
	r io.Reader
}

// FromReader returns a Source reading from r. A short read is reported
// as [ErrEntropyUnavailable].
func FromReader(r io.Reader) Source { return &readerSource{r: r} }

func (s *readerSource) Fill(b []byte) error {
	if _, err := io.ReadFull(s.r, b); err != nil {
		return wrap(err)
	}
	return nil
}

func wrap(err error) error {
	if errors.Is(err, ErrEntropyUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
}

// Deterministic is a ChaCha20 keystream keyed by a fixed seed. Two
// instances with the same seed emit the same bytes. It must only be
// used for tests and known-answer vectors.
type Deterministic struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewDeterministic returns a Deterministic source keyed by seed.
func NewDeterministic(seed [32]byte) *Deterministic {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &Deterministic{cipher: c}
}

// Fill writes the next len(b) keystream bytes into b.
func (d *Deterministic) Fill(b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(b)
	d.cipher.XORKeyStream(b, b)
	return nil
}

// Failing returns a Source that always fails with
// [ErrEntropyUnavailable]. It models an exhausted hardware pool.
func Failing() Source {
	return Func(func([]byte) error { return ErrEntropyUnavailable })
}

type reader struct {
	s Source
}

// Reader exposes s as an io.Reader for APIs such as
// group.Group.RandomScalar.
func Reader(s Source) io.Reader { return reader{s: s} }

func (r reader) Read(p []byte) (int, error) {
	if err := r.s.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
