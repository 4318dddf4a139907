package frost

import (
	"fmt"

	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/random"
)

// Round1Data is broadcast by each participant in round 1.
type Round1Data struct {
	ID          group.Scalar  // participant identifier
	Commitments []group.Point // commitments to polynomial coefficients
}

// Round1PrivateData is sent privately to each participant.
type Round1PrivateData struct {
	FromID group.Scalar // sender's ID
	ToID   group.Scalar // recipient's ID
	Share  group.Scalar // polynomial evaluation for recipient
}

// Participant holds state during DKG.
type Participant struct {
	id             group.Scalar
	coefficients   []group.Scalar          // our secret polynomial
	commitments    []group.Point           // public commitments
	receivedShares map[string]group.Scalar // shares from others
}

// NewParticipant creates a participant for DKG. The polynomial is drawn
// from the engine's random source.
func (f *FROST) NewParticipant(id int) (*Participant, error) {
	pid, err := f.participantID(id)
	if err != nil {
		return nil, err
	}

	// Random polynomial of degree t-1
	r := random.Reader(random.Func(f.engine.Fill))
	coeffs := make([]group.Scalar, f.threshold)
	for i := range coeffs {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			for _, prev := range coeffs[:i] {
				prev.Zero()
			}
			return nil, fmt.Errorf("frost: polynomial: %w", err)
		}
		coeffs[i] = c
	}

	// C_i = coeffs[i] * G
	commits := make([]group.Point, f.threshold)
	for i, c := range coeffs {
		commits[i] = f.group.NewPoint().ScalarBaseMult(c)
	}

	return &Participant{
		id:             pid,
		coefficients:   coeffs,
		commitments:    commits,
		receivedShares: make(map[string]group.Scalar),
	}, nil
}

// Round1Broadcast returns data to broadcast to all participants.
func (p *Participant) Round1Broadcast() *Round1Data {
	return &Round1Data{
		ID:          p.id,
		Commitments: p.commitments,
	}
}

// Round1PrivateSend returns the share to send privately to recipient.
func (f *FROST) Round1PrivateSend(p *Participant, recipientID int) (*Round1PrivateData, error) {
	toID, err := f.participantID(recipientID)
	if err != nil {
		return nil, err
	}
	return &Round1PrivateData{
		FromID: p.id,
		ToID:   toID,
		Share:  f.evalPolynomial(p.coefficients, toID),
	}, nil
}

// Round2ReceiveShare verifies and stores a received share.
func (f *FROST) Round2ReceiveShare(p *Participant, data *Round1PrivateData, senderCommitments []group.Point) error {
	if !data.ToID.Equal(p.id) {
		return fmt.Errorf("%w: share addressed to another participant", ErrInvalidShare)
	}
	if len(senderCommitments) != f.threshold {
		return fmt.Errorf("%w: %d commitments, want %d", ErrInvalidShare, len(senderCommitments), f.threshold)
	}

	// share * G == sum(commitments[i] * recipientID^i)
	lhs := f.group.NewPoint().ScalarBaseMult(data.Share)

	rhs := f.group.NewPoint()
	xPower := f.group.NewScalar().SetUint64(1)
	for _, commit := range senderCommitments {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		rhs = f.group.NewPoint().Add(rhs, term)
		xPower = f.group.NewScalar().Mul(xPower, data.ToID)
	}

	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: from participant %x", ErrInvalidShare, data.FromID.Bytes())
	}

	p.receivedShares[string(data.FromID.Bytes())] = data.Share
	return nil
}

// Finalize computes the final key share once a share from every other
// participant has been received. The participant's polynomial is wiped.
func (f *FROST) Finalize(p *Participant, allBroadcasts []*Round1Data) (*KeyShare, error) {
	if got := len(p.receivedShares); got != f.total-1 {
		return nil, fmt.Errorf("frost: received %d shares, want %d", got, f.total-1)
	}
	if len(allBroadcasts) != f.total {
		return nil, fmt.Errorf("frost: received %d broadcasts, want %d", len(allBroadcasts), f.total)
	}

	// Sum all received shares (including our own)
	secretKey := f.evalPolynomial(p.coefficients, p.id)
	for _, share := range p.receivedShares {
		secretKey = f.group.NewScalar().Add(secretKey, share)
		share.Zero()
	}
	for _, c := range p.coefficients {
		c.Zero()
	}
	clear(p.receivedShares)

	publicKey := f.group.NewPoint().ScalarBaseMult(secretKey)

	// Group key: sum of all constant term commitments
	groupKey := f.group.NewPoint()
	for _, broadcast := range allBroadcasts {
		groupKey = f.group.NewPoint().Add(groupKey, broadcast.Commitments[0])
	}

	return &KeyShare{
		ID:        p.id,
		SecretKey: secretKey,
		PublicKey: publicKey,
		GroupKey:  groupKey,
	}, nil
}
