package schnorr

import (
	"fmt"

	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/transcript"
)

const (
	// VRFThresholdSize is the width of a [VRFThreshold].
	VRFThresholdSize = 16
	// VRFRandomnessSize is the length of the bytes returned by
	// [Engine.VRFRandomness].
	VRFRandomnessSize = 32
)

const (
	vrfInputProtocol  = "sr.vrf.input"
	vrfNonceProtocol  = "sr.vrf.nonce"
	vrfProofProtocol  = "sr.vrf.proof"
	vrfOutputProtocol = "sr.vrf.output"
)

// VRFThreshold is a 128-bit little-endian bound. An output passes when
// the value it derives is strictly below the threshold.
type VRFThreshold [VRFThresholdSize]byte

// MaxVRFThreshold returns the all-ones threshold, which every output
// except the largest possible value passes.
func MaxVRFThreshold() VRFThreshold {
	var t VRFThreshold
	for i := range t {
		t[i] = 0xff
	}
	return t
}

func (t VRFThreshold) admits(v []byte) bool {
	for i := VRFThresholdSize - 1; i >= 0; i-- {
		if v[i] != t[i] {
			return v[i] < t[i]
		}
	}
	return false
}

// VRFOutput is the pre-output sk*H, where H is the message hashed into
// the group under the signer's public key and signing context.
type VRFOutput struct {
	point group.Point
}

// Bytes returns the point encoding of o, or nil for a nil output.
func (o *VRFOutput) Bytes() []byte {
	if o == nil || o.point == nil {
		return nil
	}
	return o.point.Bytes()
}

// VRFProof shows that an output and a public key share their discrete
// logarithm, as a challenge c and a response s.
type VRFProof struct {
	C group.Scalar
	S group.Scalar
}

// Bytes encodes the proof as c || s, or returns nil if it is incomplete.
func (p *VRFProof) Bytes() []byte {
	if p == nil || p.C == nil || p.S == nil {
		return nil
	}
	return append(p.C.Bytes(), p.S.Bytes()...)
}

// VRFOutputSize is the encoded output length for the engine's group.
func (e *Engine) VRFOutputSize() int { return e.group.PointSize() }

// VRFProofSize is the encoded proof length for the engine's group.
func (e *Engine) VRFProofSize() int { return 2 * e.group.ScalarSize() }

// ParseVRFOutput decodes an output produced by [VRFOutput.Bytes].
func (e *Engine) ParseVRFOutput(b []byte) (*VRFOutput, error) {
	if len(b) != e.VRFOutputSize() {
		return nil, fmt.Errorf("%w: vrf output length %d, want %d", ErrMalformedEncoding, len(b), e.VRFOutputSize())
	}
	pt, err := e.group.NewPoint().SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: vrf output: %w", ErrMalformedEncoding, err)
	}
	return &VRFOutput{point: pt}, nil
}

// ParseVRFProof decodes c || s.
func (e *Engine) ParseVRFProof(b []byte) (*VRFProof, error) {
	if len(b) != e.VRFProofSize() {
		return nil, fmt.Errorf("%w: vrf proof length %d, want %d", ErrMalformedEncoding, len(b), e.VRFProofSize())
	}
	n := e.group.ScalarSize()
	c, err := e.group.NewScalar().SetBytes(b[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: vrf challenge: %w", ErrMalformedEncoding, err)
	}
	s, err := e.group.NewScalar().SetBytes(b[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vrf response: %w", ErrMalformedEncoding, err)
	}
	return &VRFProof{C: c, S: s}, nil
}

// VRFSign evaluates the VRF on msg. The output depends only on kp, msg
// and the signing context; the proof is hedged like a signature nonce.
func (e *Engine) VRFSign(kp *KeyPair, msg []byte) (*VRFOutput, *VRFProof, error) {
	if err := e.checkKeyPair(kp); err != nil {
		return nil, nil, err
	}
	H, err := e.vrfInput(kp.public, msg)
	if err != nil {
		return nil, nil, err
	}

	witness := make([]byte, WitnessSize)
	defer clear(witness)
	if err := e.Fill(witness); err != nil {
		return nil, nil, err
	}

	sk, err := kp.secretScalar()
	if err != nil {
		return nil, nil, err
	}
	defer sk.Zero()

	O := e.group.NewPoint().ScalarMult(sk, H)

	nt := transcript.New(e.hash, vrfNonceProtocol)
	defer nt.Zero()
	nt.AppendMessage("vrf:sk", kp.secret)
	nt.AppendMessage("vrf:H", H.Bytes())
	nt.AppendMessage("vrf:witness", witness)
	r := nt.DeriveScalar(e.group, "vrf:nonce")
	defer r.Zero()

	R1 := e.group.NewPoint().ScalarBaseMult(r)
	R2 := e.group.NewPoint().ScalarMult(r, H)
	c := e.vrfChallenge(kp.public, H, O, R1, R2)

	cs := e.group.NewScalar().Mul(c, sk)
	defer cs.Zero()
	s := e.group.NewScalar().Sub(r, cs)

	return &VRFOutput{point: O}, &VRFProof{C: c, S: s}, nil
}

// VRFSignIfLess evaluates the VRF on msg and also reports whether the
// output passes threshold. The output and proof are returned either way.
func (e *Engine) VRFSignIfLess(kp *KeyPair, msg []byte, threshold VRFThreshold) (*VRFOutput, *VRFProof, bool, error) {
	out, proof, err := e.VRFSign(kp, msg)
	if err != nil {
		return nil, nil, false, err
	}
	H, err := e.vrfInput(kp.public, msg)
	if err != nil {
		return nil, nil, false, err
	}
	v := e.vrfBytes(H, out.point, "vrf:threshold")
	return out, proof, threshold.admits(v[:VRFThresholdSize]), nil
}

// VRFVerify checks proof for out over msg under pub, then checks out
// against threshold. A bad proof is [ErrInvalidSignature]; a valid proof
// whose output does not pass is [ErrVRFThreshold].
func (e *Engine) VRFVerify(pub PublicKey, msg []byte, out *VRFOutput, proof *VRFProof, threshold VRFThreshold) error {
	if pub.point == nil {
		return fmt.Errorf("%w: empty public key", ErrMalformedEncoding)
	}
	if err := e.sameGroup(pub.group); err != nil {
		return err
	}
	if out == nil || out.point == nil || proof == nil || proof.C == nil || proof.S == nil {
		return fmt.Errorf("%w: incomplete vrf proof", ErrMalformedEncoding)
	}
	H, err := e.vrfInput(pub, msg)
	if err != nil {
		return err
	}

	// R1 = s*G + c*P, R2 = s*H + c*O
	R1 := e.group.NewPoint().ScalarBaseMult(proof.S)
	R1.Add(R1, e.group.NewPoint().ScalarMult(proof.C, pub.point))
	R2 := e.group.NewPoint().ScalarMult(proof.S, H)
	R2.Add(R2, e.group.NewPoint().ScalarMult(proof.C, out.point))

	if !e.vrfChallenge(pub, H, out.point, R1, R2).Equal(proof.C) {
		e.log.Debug().Hex("public_key", pub.Bytes()).Msg("vrf proof rejected")
		return ErrInvalidSignature
	}
	v := e.vrfBytes(H, out.point, "vrf:threshold")
	if !threshold.admits(v[:VRFThresholdSize]) {
		return ErrVRFThreshold
	}
	return nil
}

// VRFVerifyBytes decodes pub, out and proof and calls [Engine.VRFVerify].
func (e *Engine) VRFVerifyBytes(pub, msg, out, proof []byte, threshold VRFThreshold) error {
	pk, err := e.ParsePublicKey(pub)
	if err != nil {
		return err
	}
	o, err := e.ParseVRFOutput(out)
	if err != nil {
		return err
	}
	p, err := e.ParseVRFProof(proof)
	if err != nil {
		return err
	}
	return e.VRFVerify(pk, msg, o, p, threshold)
}

// VRFRandomness returns the pseudorandom bytes carried by out. They are
// only meaningful once the output's proof has been verified.
func (e *Engine) VRFRandomness(pub PublicKey, msg []byte, out *VRFOutput) ([]byte, error) {
	if pub.point == nil || out == nil || out.point == nil {
		return nil, fmt.Errorf("%w: incomplete vrf output", ErrMalformedEncoding)
	}
	if err := e.sameGroup(pub.group); err != nil {
		return nil, err
	}
	H, err := e.vrfInput(pub, msg)
	if err != nil {
		return nil, err
	}
	d := e.vrfBytes(H, out.point, "vrf:bytes")
	return append([]byte(nil), d[:VRFRandomnessSize]...), nil
}

// vrfInput hashes msg into the group, bound to pub and the context.
func (e *Engine) vrfInput(pub PublicKey, msg []byte) (group.Point, error) {
	t := transcript.New(e.hash, vrfInputProtocol)
	t.AppendMessage("vrf:ctx", e.context)
	t.AppendMessage("vrf:pk", pub.point.Bytes())
	t.AppendMessage("vrf:msg", msg)
	u := t.ChallengeBytes("vrf:H")
	H, err := e.group.HashToPoint(u[:])
	if err != nil {
		return nil, fmt.Errorf("schnorr: vrf input: %w", err)
	}
	return H, nil
}

func (e *Engine) vrfChallenge(pub PublicKey, H, O, R1, R2 group.Point) group.Scalar {
	t := transcript.New(e.hash, vrfProofProtocol)
	t.AppendMessage("vrf:pk", pub.point.Bytes())
	t.AppendMessage("vrf:H", H.Bytes())
	t.AppendMessage("vrf:O", O.Bytes())
	t.AppendMessage("vrf:R1", R1.Bytes())
	t.AppendMessage("vrf:R2", R2.Bytes())
	return t.DeriveScalar(e.group, "vrf:c")
}

func (e *Engine) vrfBytes(H, O group.Point, label string) []byte {
	t := transcript.New(e.hash, vrfOutputProtocol)
	t.AppendMessage("vrf:H", H.Bytes())
	t.AppendMessage("vrf:O", O.Bytes())
	d := t.ChallengeBytes(label)
	return d[:]
}
