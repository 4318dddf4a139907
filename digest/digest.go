// Package digest defines the streaming 512-bit hash contract used by
// transcripts and key generation, together with the stock backends.
//
// A backend is chosen once, when the signature engine is constructed,
// and every hash computed by that engine goes through it. Backends need
// not agree with each other; signatures made under one backend only
// verify under the same backend.
package digest

import (
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Size is the digest length in bytes.
const Size = 64

// Digest is the 64-byte output of a [Backend].
type Digest [Size]byte

// Context accumulates input for one digest computation.
//
// Final consumes the context; calling Update or Final again afterwards
// is a caller error and the result is unspecified.
type Context interface {
	Update(p []byte)
	Final() Digest
}

// Backend produces hash contexts. Implementations cannot fail.
type Backend interface {
	// Name identifies the backend, e.g. "sha512".
	Name() string
	// New starts a fresh context.
	New() Context
	// Sum is equivalent to New, Update(data), Final.
	Sum(data []byte) Digest
}

type stdBackend struct {
	name string
	new  func() hash.Hash
}

func (b *stdBackend) Name() string { return b.name }

func (b *stdBackend) New() Context { return &stdContext{h: b.new()} }

func (b *stdBackend) Sum(data []byte) Digest {
	ctx := b.New()
	ctx.Update(data)
	return ctx.Final()
}

type stdContext struct {
	h hash.Hash
}

func (c *stdContext) Update(p []byte) {
	// hash.Hash.Write never returns an error.
	c.h.Write(p)
}

func (c *stdContext) Final() Digest {
	var d Digest
	c.h.Sum(d[:0])
	c.h.Reset()
	return d
}

var (
	sha512Backend  = &stdBackend{name: "sha512", new: sha512.New}
	blake2bBackend = &stdBackend{name: "blake2b", new: func() hash.Hash {
		// New512 only fails for keys longer than 64 bytes.
		h, _ := blake2b.New512(nil)
		return h
	}}
	sha3Backend = &stdBackend{name: "sha3-512", new: sha3.New512}
)

// SHA512 returns the SHA-512 backend, the default for sr25519.
func SHA512() Backend { return sha512Backend }

// Blake2b512 returns the unkeyed BLAKE2b-512 backend.
func Blake2b512() Backend { return blake2bBackend }

// SHA3_512 returns the SHA3-512 backend.
func SHA3_512() Backend { return sha3Backend }

var registry = map[string]Backend{
	sha512Backend.name:  sha512Backend,
	blake2bBackend.name: blake2bBackend,
	sha3Backend.name:    sha3Backend,
}

// ByName looks up a stock backend by its [Backend.Name].
func ByName(name string) (Backend, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("digest: unknown backend %q (have %v)", name, Names())
	}
	return b, nil
}

// Names lists the stock backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
