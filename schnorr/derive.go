package schnorr

import (
	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/transcript"
)

// ChainCodeSize is the length of a derivation chain code.
const ChainCodeSize = 32

// ChainCode selects a child key during hierarchical derivation.
type ChainCode [ChainCodeSize]byte

const hdkdProtocol = "sr.hdkd"

// DeriveHard derives a child key pair that cannot be linked to kp from
// public information. The child and the next chain code both come from
// the secret key, so no public derivation counterpart exists.
func (e *Engine) DeriveHard(kp *KeyPair, cc ChainCode) (*KeyPair, ChainCode, error) {
	var next ChainCode
	if err := e.checkKeyPair(kp); err != nil {
		return nil, next, err
	}

	t := transcript.New(e.hash, hdkdProtocol)
	defer t.Zero()
	t.AppendMessage("chain-code", cc[:])
	t.AppendMessage("secret-key", kp.secret)
	d := t.ChallengeBytes("hard")
	defer clear(d[:])

	copy(next[:], d[SeedSize:])
	child, err := e.KeyPairFromSeed(d[:SeedSize])
	if err != nil {
		return nil, ChainCode{}, err
	}
	return child, next, nil
}

// DeriveSoft derives a child key pair whose public key can also be
// computed from kp's public key with [Engine.DerivePublicSoft].
func (e *Engine) DeriveSoft(kp *KeyPair, cc ChainCode) (*KeyPair, ChainCode, error) {
	if err := e.checkKeyPair(kp); err != nil {
		return nil, ChainCode{}, err
	}
	sk, err := kp.secretScalar()
	if err != nil {
		return nil, ChainCode{}, err
	}
	defer sk.Zero()

	off, next := e.softOffset(kp.public, cc)
	defer off.Zero()

	child := e.group.NewScalar().Add(sk, off)
	defer child.Zero()
	if child.IsZero() {
		return nil, ChainCode{}, ErrDegenerateKey
	}
	return newKeyPair(e.group, child), next, nil
}

// DerivePublicSoft computes the public key of the soft child of pub.
func (e *Engine) DerivePublicSoft(pub PublicKey, cc ChainCode) (PublicKey, ChainCode, error) {
	if pub.point == nil {
		return PublicKey{}, ChainCode{}, ErrMalformedEncoding
	}
	if err := e.sameGroup(pub.group); err != nil {
		return PublicKey{}, ChainCode{}, err
	}
	off, next := e.softOffset(pub, cc)
	offG := e.group.NewPoint().ScalarBaseMult(off)
	child := e.group.NewPoint().Add(pub.point, offG)
	return PublicKey{group: e.group, point: child}, next, nil
}

func (e *Engine) softOffset(pub PublicKey, cc ChainCode) (group.Scalar, ChainCode) {
	t := transcript.New(e.hash, hdkdProtocol)
	t.AppendMessage("chain-code", cc[:])
	t.AppendMessage("public-key", pub.point.Bytes())
	off := t.DeriveScalar(e.group, "soft-scalar")

	var next ChainCode
	d := t.ChallengeBytes("soft-chain-code")
	copy(next[:], d[:ChainCodeSize])
	return off, next
}
