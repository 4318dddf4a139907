package frost

import (
	"fmt"
	"sync/atomic"

	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/schnorr"
	"github.com/f3rmion/sr/transcript"
)

const (
	nonceProtocol   = "sr.frost.nonce"
	bindingProtocol = "sr.frost.binding"
)

// SigningNonce holds a participant's nonce pair for signing. It can be
// consumed by SignRound2 exactly once; the pair is wiped afterwards.
type SigningNonce struct {
	ID   group.Scalar
	d    group.Scalar // hiding nonce
	e    group.Scalar // binding nonce
	used atomic.Bool
}

// Used reports whether the nonce has been consumed.
func (n *SigningNonce) Used() bool { return n.used.Load() }

// SigningCommitment is broadcast in round 1 of signing.
type SigningCommitment struct {
	ID           group.Scalar
	HidingPoint  group.Point // D * G
	BindingPoint group.Point // E * G
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	ID group.Scalar
	Z  group.Scalar
}

// SignRound1 generates nonces and commitment for signing. Both nonces are
// hedged: they are derived from the secret share and fresh randomness,
// so a weak random source alone does not reveal the share.
func (f *FROST) SignRound1(share *KeyShare) (*SigningNonce, *SigningCommitment, error) {
	witness := make([]byte, schnorr.WitnessSize)
	defer clear(witness)
	if err := f.engine.Fill(witness); err != nil {
		return nil, nil, fmt.Errorf("frost: nonce: %w", err)
	}

	sk := share.SecretKey.Bytes()
	defer clear(sk)

	t := transcript.New(f.engine.Hash(), nonceProtocol)
	defer t.Zero()
	t.AppendMessage("share", sk)
	t.AppendMessage("id", share.ID.Bytes())
	t.AppendMessage("witness", witness)
	d := t.DeriveScalar(f.group, "hiding")
	e := t.DeriveScalar(f.group, "binding")

	nonce := &SigningNonce{ID: share.ID, d: d, e: e}
	commitment := &SigningCommitment{
		ID:           share.ID,
		HidingPoint:  f.group.NewPoint().ScalarBaseMult(d),
		BindingPoint: f.group.NewPoint().ScalarBaseMult(e),
	}
	return nonce, commitment, nil
}

// SignRound2 generates a signature share. Every signer must pass the same
// message and the same commitments in the same order.
func (f *FROST) SignRound2(
	share *KeyShare,
	nonce *SigningNonce,
	message []byte,
	commitments []*SigningCommitment,
) (*SignatureShare, error) {
	if !nonce.used.CompareAndSwap(false, true) {
		return nil, ErrNonceReused
	}
	defer nonce.d.Zero()
	defer nonce.e.Zero()

	if !nonce.ID.Equal(share.ID) {
		return nil, fmt.Errorf("%w: nonce belongs to another signer", ErrUnknownParticipant)
	}

	bindingFactors := f.computeBindingFactors(message, commitments)
	myRho, ok := bindingFactors[string(share.ID.Bytes())]
	if !ok {
		return nil, fmt.Errorf("%w: signer missing from commitments", ErrUnknownParticipant)
	}

	R := f.groupCommitment(commitments, bindingFactors)
	c := f.engine.Challenge(f.GroupPublicKey(share), R, message)

	lambda, err := f.lagrangeCoefficient(share.ID, commitments)
	if err != nil {
		return nil, err
	}

	// z_i = d + rho * e + lambda * s * c
	z := f.group.NewScalar().Mul(myRho, nonce.e)
	z = f.group.NewScalar().Add(nonce.d, z)
	lambdaS := f.group.NewScalar().Mul(lambda, share.SecretKey)
	defer lambdaS.Zero()
	lambdaSC := f.group.NewScalar().Mul(lambdaS, c)
	defer lambdaSC.Zero()
	z = f.group.NewScalar().Add(z, lambdaSC)

	return &SignatureShare{
		ID: share.ID,
		Z:  z,
	}, nil
}

// VerifyShare checks a single signature share against the signer's public
// key share, so that a coordinator can identify a misbehaving signer.
func (f *FROST) VerifyShare(
	sigShare *SignatureShare,
	publicShare group.Point,
	groupKey group.Point,
	message []byte,
	commitments []*SigningCommitment,
) error {
	var comm *SigningCommitment
	for _, c := range commitments {
		if c.ID.Equal(sigShare.ID) {
			comm = c
			break
		}
	}
	if comm == nil {
		return fmt.Errorf("%w: signer missing from commitments", ErrUnknownParticipant)
	}

	bindingFactors := f.computeBindingFactors(message, commitments)
	R := f.groupCommitment(commitments, bindingFactors)
	c := f.engine.Challenge(schnorr.NewPublicKey(f.group, groupKey), R, message)
	lambda, err := f.lagrangeCoefficient(sigShare.ID, commitments)
	if err != nil {
		return err
	}

	// z_i * G == D_i + rho_i * E_i + (lambda_i * c) * Y_i
	rho := bindingFactors[string(sigShare.ID.Bytes())]
	lhs := f.group.NewPoint().ScalarBaseMult(sigShare.Z)
	rhs := f.group.NewPoint().Add(comm.HidingPoint, f.group.NewPoint().ScalarMult(rho, comm.BindingPoint))
	lc := f.group.NewScalar().Mul(lambda, c)
	rhs = f.group.NewPoint().Add(rhs, f.group.NewPoint().ScalarMult(lc, publicShare))

	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: signature share from %x", ErrInvalidShare, sigShare.ID.Bytes())
	}
	return nil
}

// Aggregate combines signature shares into a final signature.
func (f *FROST) Aggregate(
	message []byte,
	commitments []*SigningCommitment,
	shares []*SignatureShare,
) (*schnorr.Signature, error) {
	if len(shares) < f.threshold {
		return nil, fmt.Errorf("frost: %d shares, need at least %d", len(shares), f.threshold)
	}
	if len(shares) != len(commitments) {
		return nil, fmt.Errorf("frost: %d shares for %d commitments", len(shares), len(commitments))
	}

	bindingFactors := f.computeBindingFactors(message, commitments)
	R := f.groupCommitment(commitments, bindingFactors)

	z := f.group.NewScalar()
	for _, s := range shares {
		z = f.group.NewScalar().Add(z, s.Z)
	}

	return &schnorr.Signature{R: R, S: z}, nil
}

// Verify checks an aggregated signature against the group key. It is
// ordinary single-signer verification.
func (f *FROST) Verify(message []byte, sig *schnorr.Signature, groupKey group.Point) error {
	return f.engine.Verify(schnorr.NewPublicKey(f.group, groupKey), message, sig)
}

// groupCommitment computes R = sum(D_i + rho_i * E_i).
func (f *FROST) groupCommitment(commitments []*SigningCommitment, bindingFactors map[string]group.Scalar) group.Point {
	R := f.group.NewPoint()
	for _, comm := range commitments {
		rho := bindingFactors[string(comm.ID.Bytes())]
		rhoE := f.group.NewPoint().ScalarMult(rho, comm.BindingPoint)
		term := f.group.NewPoint().Add(comm.HidingPoint, rhoE)
		R = f.group.NewPoint().Add(R, term)
	}
	return R
}

func (f *FROST) computeBindingFactors(message []byte, commitments []*SigningCommitment) map[string]group.Scalar {
	factors := make(map[string]group.Scalar, len(commitments))

	t := transcript.New(f.engine.Hash(), bindingProtocol)
	t.AppendMessage("msg", message)
	t.AppendUint64("signers", uint64(len(commitments)))
	for _, c := range commitments {
		t.AppendMessage("id", c.ID.Bytes())
		t.AppendMessage("hiding", c.HidingPoint.Bytes())
		t.AppendMessage("binding", c.BindingPoint.Bytes())
	}

	for _, c := range commitments {
		ct := t.Clone()
		ct.AppendMessage("signer", c.ID.Bytes())
		factors[string(c.ID.Bytes())] = ct.DeriveScalar(f.group, "rho")
	}

	return factors
}

func (f *FROST) lagrangeCoefficient(id group.Scalar, commitments []*SigningCommitment) (group.Scalar, error) {
	num := f.group.NewScalar().SetUint64(1)
	den := f.group.NewScalar().SetUint64(1)

	for _, c := range commitments {
		if c.ID.Equal(id) {
			continue
		}
		// num *= c.ID
		num = f.group.NewScalar().Mul(num, c.ID)
		// den *= (c.ID - id)
		diff := f.group.NewScalar().Sub(c.ID, id)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate signer identifiers", ErrUnknownParticipant)
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
