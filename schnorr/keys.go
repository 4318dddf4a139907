package schnorr

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/f3rmion/sr/group"
)

// SeedSize is the length of a key-generation seed (a "mini secret key").
const SeedSize = 32

// PublicKey is a group element P = sk*G. It is an immutable value.
type PublicKey struct {
	group group.Group
	point group.Point
}

// NewPublicKey wraps a point of g as a public key.
func NewPublicKey(g group.Group, p group.Point) PublicKey {
	return PublicKey{group: g, point: g.NewPoint().Set(p)}
}

// Point returns a copy of the underlying group element, or nil for the
// zero PublicKey.
func (p PublicKey) Point() group.Point {
	if p.point == nil {
		return nil
	}
	return p.group.NewPoint().Set(p.point)
}

// Group returns the group the key belongs to.
func (p PublicKey) Group() group.Group { return p.group }

// Bytes returns the fixed-width encoding of the key, or nil for the zero
// PublicKey.
func (p PublicKey) Bytes() []byte {
	if p.point == nil {
		return nil
	}
	return p.point.Bytes()
}

// Equal reports whether p and q encode the same key.
func (p PublicKey) Equal(q PublicKey) bool {
	if p.point == nil || q.point == nil {
		return p.point == nil && q.point == nil
	}
	return bytes.Equal(p.Bytes(), q.Bytes())
}

// ParsePublicKey decodes a public key for the engine's group.
func (e *Engine) ParsePublicKey(b []byte) (PublicKey, error) {
	pt, err := e.group.NewPoint().SetBytes(b)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: public key: %w", ErrMalformedEncoding, err)
	}
	return PublicKey{group: e.group, point: pt}, nil
}

// KeyPair owns a secret scalar and its public key.
//
// The secret is held in its canonical encoding and decoded only for the
// duration of an operation. A KeyPair is Active until [KeyPair.Dispose]
// is called; disposal is terminal.
type KeyPair struct {
	group    group.Group
	secret   []byte
	public   PublicKey
	disposed atomic.Bool
}

func newKeyPair(g group.Group, sk group.Scalar) *KeyPair {
	return &KeyPair{
		group:  g,
		secret: sk.Bytes(),
		public: PublicKey{group: g, point: g.NewPoint().ScalarBaseMult(sk)},
	}
}

// Public returns the public half of the pair.
func (k *KeyPair) Public() PublicKey { return k.public }

// Group returns the group the pair belongs to.
func (k *KeyPair) Group() group.Group { return k.group }

// Disposed reports whether Dispose has been called.
func (k *KeyPair) Disposed() bool { return k.disposed.Load() }

// Dispose overwrites the secret key with zeros. It is idempotent. The
// caller must ensure no signing operation using k is still running.
func (k *KeyPair) Dispose() {
	k.disposed.Store(true)
	clear(k.secret)
}

// SecretBytes returns a copy of the canonical secret scalar encoding.
// The caller owns the copy and should clear it when done.
func (k *KeyPair) SecretBytes() ([]byte, error) {
	if k.Disposed() {
		return nil, ErrKeyPairDisposed
	}
	return bytes.Clone(k.secret), nil
}

// secretScalar decodes the secret. The caller must Zero the result.
func (k *KeyPair) secretScalar() (group.Scalar, error) {
	if k.Disposed() {
		return nil, ErrKeyPairDisposed
	}
	sk, err := k.group.NewScalar().SetBytes(k.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret key: %w", ErrMalformedEncoding, err)
	}
	return sk, nil
}

func (e *Engine) checkKeyPair(kp *KeyPair) error {
	if kp == nil {
		return errors.New("schnorr: nil key pair")
	}
	if err := e.sameGroup(kp.group); err != nil {
		return err
	}
	if kp.Disposed() {
		return ErrKeyPairDisposed
	}
	return nil
}

// NewSeed draws a fresh key-generation seed from the random source.
func (e *Engine) NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if err := e.Fill(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// GenerateKey creates a key pair from a fresh random seed. A seed that
// reduces to a zero scalar is discarded and redrawn.
func (e *Engine) GenerateKey() (*KeyPair, error) {
	for {
		seed, err := e.NewSeed()
		if err != nil {
			return nil, err
		}
		kp, err := e.KeyPairFromSeed(seed)
		clear(seed)
		if errors.Is(err, ErrDegenerateKey) {
			e.log.Warn().Msg("seed reduced to zero scalar, redrawing")
			continue
		}
		if err != nil {
			return nil, err
		}
		e.log.Debug().Hex("public_key", kp.public.Bytes()).Msg("key pair generated")
		return kp, nil
	}
}

// KeyPairFromSeed deterministically expands a [SeedSize]-byte seed into
// a key pair: sk = Hash(seed) reduced modulo the group order.
func (e *Engine) KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed length %d, want %d", ErrMalformedEncoding, len(seed), SeedSize)
	}
	d := e.hash.Sum(seed)
	defer clear(d[:])

	sk, err := e.group.NewScalar().SetUniformBytes(d[:])
	if err != nil {
		return nil, err
	}
	defer sk.Zero()
	if sk.IsZero() {
		return nil, ErrDegenerateKey
	}
	return newKeyPair(e.group, sk), nil
}

// KeyPairFromSecret rebuilds a key pair from a canonical secret scalar
// encoding, as returned by [KeyPair.SecretBytes].
func (e *Engine) KeyPairFromSecret(b []byte) (*KeyPair, error) {
	sk, err := e.group.NewScalar().SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: secret key: %w", ErrMalformedEncoding, err)
	}
	defer sk.Zero()
	if sk.IsZero() {
		return nil, ErrDegenerateKey
	}
	return newKeyPair(e.group, sk), nil
}
