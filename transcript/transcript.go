// Package transcript derives scalars from an ordered sequence of labeled
// byte strings, giving domain-separated Fiat-Shamir challenges on top of
// a [digest.Backend].
//
// Every absorbed item is framed as
//
//	u32le(len(label)) || label || u64le(len(data)) || data
//
// so no two distinct sequences of (label, data) pairs share an encoding.
// A transcript starts with its protocol label absorbed under "dom-sep".
// Deriving output hashes the framed state followed by a derivation frame,
// then absorbs the output back in, so successive derivations from the
// same transcript are independent.
//
// A Transcript is not safe for concurrent use.
package transcript

import (
	"encoding/binary"

	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/group"
)

const (
	domSepLabel = "dom-sep"
	deriveLabel = "derive"

	initialCap = 512

	// frameOverhead is the length prefix bytes around each message.
	frameOverhead = 4 + 8
)

// Transcript is an append-only record of labeled messages.
type Transcript struct {
	backend digest.Backend
	state   []byte
}

// New starts a transcript for the protocol named by label.
func New(backend digest.Backend, label string) *Transcript {
	t := &Transcript{
		backend: backend,
		state:   make([]byte, 0, initialCap),
	}
	t.AppendMessage(domSepLabel, []byte(label))
	return t
}

// AppendMessage absorbs data under label. Order matters: signer and
// verifier must append the same items in the same order.
func (t *Transcript) AppendMessage(label string, data []byte) {
	t.reserve(frameOverhead + len(label) + len(data))
	t.state = binary.LittleEndian.AppendUint32(t.state, uint32(len(label)))
	t.state = append(t.state, label...)
	t.state = binary.LittleEndian.AppendUint64(t.state, uint64(len(data)))
	t.state = append(t.state, data...)
}

// reserve makes room for n more bytes. State may hold secrets, so when it
// moves to a larger buffer the old one is wiped rather than left to the
// garbage collector.
func (t *Transcript) reserve(n int) {
	if cap(t.state)-len(t.state) >= n {
		return
	}
	grown := make([]byte, len(t.state), max(2*cap(t.state), len(t.state)+n))
	copy(grown, t.state)
	clear(t.state[:cap(t.state)])
	t.state = grown
}

// AppendUint64 absorbs v as 8 little-endian bytes under label.
func (t *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.AppendMessage(label, buf[:])
}

// ChallengeBytes derives a digest bound to everything absorbed so far
// and to label.
func (t *Transcript) ChallengeBytes(label string) digest.Digest {
	ctx := t.backend.New()
	ctx.Update(t.state)

	var frame []byte
	frame = binary.LittleEndian.AppendUint32(frame, uint32(len(deriveLabel)))
	frame = append(frame, deriveLabel...)
	frame = binary.LittleEndian.AppendUint32(frame, uint32(len(label)))
	frame = append(frame, label...)
	ctx.Update(frame)

	out := ctx.Final()
	t.AppendMessage(label, out[:])
	return out
}

// DeriveScalar derives a scalar of g bound to the transcript and label,
// reducing a full 64-byte digest so the result is close to uniform.
func (t *Transcript) DeriveScalar(g group.Group, label string) group.Scalar {
	d := t.ChallengeBytes(label)
	s, err := g.NewScalar().SetUniformBytes(d[:])
	clear(d[:])
	if err != nil {
		// Digest size equals group.UniformSize; backends only reject
		// other lengths.
		panic(err)
	}
	return s
}

// Clone returns an independent copy of t.
func (t *Transcript) Clone() *Transcript {
	state := make([]byte, len(t.state), max(cap(t.state), initialCap))
	copy(state, t.state)
	return &Transcript{backend: t.backend, state: state}
}

// Zero wipes the absorbed state. The transcript must not be used again.
func (t *Transcript) Zero() {
	clear(t.state[:cap(t.state)])
	t.state = t.state[:0]
}
