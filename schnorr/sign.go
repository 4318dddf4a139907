package schnorr

import (
	"fmt"

	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/transcript"
)

// WitnessSize is the number of fresh random bytes mixed into each nonce.
const WitnessSize = 32

const (
	nonceProtocol = "sr.nonce"
	signProtocol  = "sr.sign"
)

// Sign produces a signature of msg under kp. It fails only if the random
// source fails or kp is unusable (disposed or from another group).
func (e *Engine) Sign(kp *KeyPair, msg []byte) (*Signature, error) {
	if err := e.checkKeyPair(kp); err != nil {
		return nil, err
	}

	witness := make([]byte, WitnessSize)
	defer clear(witness)
	if err := e.Fill(witness); err != nil {
		return nil, err
	}

	sk, err := kp.secretScalar()
	if err != nil {
		return nil, err
	}
	defer sk.Zero()

	nt := transcript.New(e.hash, nonceProtocol)
	defer nt.Zero()
	nt.AppendMessage("sign:sk", kp.secret)
	nt.AppendMessage("sign:msg", msg)
	nt.AppendMessage("sign:witness", witness)
	r := nt.DeriveScalar(e.group, "sign:nonce")
	defer r.Zero()

	R := e.group.NewPoint().ScalarBaseMult(r)
	c := e.Challenge(kp.public, R, msg)

	cs := e.group.NewScalar().Mul(c, sk)
	defer cs.Zero()
	s := e.group.NewScalar().Add(r, cs)

	return &Signature{R: R, S: s}, nil
}

// Challenge derives the Fiat-Shamir challenge binding the signing
// context, the public key, the commitment R and the message. Threshold
// signers use it to produce signatures that [Engine.Verify] accepts.
func (e *Engine) Challenge(pub PublicKey, R group.Point, msg []byte) group.Scalar {
	t := transcript.New(e.hash, signProtocol)
	t.AppendMessage("sign:ctx", e.context)
	t.AppendMessage("sign:pk", pub.point.Bytes())
	t.AppendMessage("sign:R", R.Bytes())
	t.AppendMessage("sign:msg", msg)
	return t.DeriveScalar(e.group, "sign:c")
}

// Verify checks sig over msg against pub. It returns nil if
// s*G == R + c*P and [ErrInvalidSignature] otherwise.
func (e *Engine) Verify(pub PublicKey, msg []byte, sig *Signature) error {
	if pub.point == nil {
		return fmt.Errorf("%w: empty public key", ErrMalformedEncoding)
	}
	if err := e.sameGroup(pub.group); err != nil {
		return err
	}
	if sig == nil || sig.R == nil || sig.S == nil {
		return fmt.Errorf("%w: incomplete signature", ErrMalformedEncoding)
	}

	c := e.Challenge(pub, sig.R, msg)

	lhs := e.group.NewPoint().ScalarBaseMult(sig.S)
	cP := e.group.NewPoint().ScalarMult(c, pub.point)
	rhs := e.group.NewPoint().Add(sig.R, cP)

	if !lhs.Equal(rhs) {
		e.log.Debug().Hex("public_key", pub.Bytes()).Msg("signature rejected")
		return ErrInvalidSignature
	}
	return nil
}

// VerifyBytes decodes pub and sig and verifies them. Decoding failures
// are reported as [ErrMalformedEncoding] before any arithmetic.
func (e *Engine) VerifyBytes(pub, msg, sig []byte) error {
	pk, err := e.ParsePublicKey(pub)
	if err != nil {
		return err
	}
	s, err := e.ParseSignature(sig)
	if err != nil {
		return err
	}
	return e.Verify(pk, msg, s)
}
