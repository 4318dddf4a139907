package frost

import (
	"errors"
	"fmt"

	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/schnorr"
)

var (
	// ErrInvalidShare is returned when a DKG share or a signature share
	// does not match the sender's public commitments.
	ErrInvalidShare = errors.New("frost: invalid share")

	// ErrNonceReused is returned when a signing nonce is passed to
	// SignRound2 a second time.
	ErrNonceReused = errors.New("frost: signing nonce already used")

	// ErrUnknownParticipant is returned for identifiers outside 1..total
	// or signers missing from the commitment list.
	ErrUnknownParticipant = errors.New("frost: unknown participant")
)

// FROST holds the signature engine and threshold parameters.
type FROST struct {
	engine    *schnorr.Engine
	group     group.Group
	threshold int // t - minimum signers needed
	total     int // n - total participants
}

// KeyShare represents a participant's share of the secret key.
type KeyShare struct {
	ID        group.Scalar // participant identifier
	SecretKey group.Scalar // secret key share
	PublicKey group.Point  // public key share
	GroupKey  group.Point  // combined group public key
}

// Zero overwrites the secret share.
func (k *KeyShare) Zero() {
	if k.SecretKey != nil {
		k.SecretKey.Zero()
	}
}

// New creates a FROST instance on top of e. Signatures it aggregates
// verify with e.Verify under the group key.
// threshold is the minimum number of signers required (t).
// total is the total number of participants (n).
func New(e *schnorr.Engine, threshold, total int) (*FROST, error) {
	if e == nil {
		return nil, errors.New("frost: nil engine")
	}
	if threshold < 2 {
		return nil, errors.New("frost: threshold must be at least 2")
	}
	if total < threshold {
		return nil, errors.New("frost: total must be >= threshold")
	}

	return &FROST{
		engine:    e,
		group:     e.Group(),
		threshold: threshold,
		total:     total,
	}, nil
}

// GroupPublicKey wraps the group key of share for use with the engine.
func (f *FROST) GroupPublicKey(share *KeyShare) schnorr.PublicKey {
	return schnorr.NewPublicKey(f.group, share.GroupKey)
}

func (f *FROST) participantID(n int) (group.Scalar, error) {
	if n < 1 || n > f.total {
		return nil, fmt.Errorf("%w: id %d not in 1..%d", ErrUnknownParticipant, n, f.total)
	}
	return f.group.NewScalar().SetUint64(uint64(n)), nil
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}
