package schnorr

import (
	"fmt"

	"github.com/f3rmion/sr/group"
)

// batchWeightSize is the width of the random batch weights in bytes.
const batchWeightSize = 16

// VerifyBatch checks many signatures at once. Each equation is weighted
// by an independent random 128-bit scalar z_i and the weighted sum
//
//	(sum z_i*s_i)*G == sum z_i*R_i + sum (z_i*c_i)*P_i
//
// is checked. It returns nil only if, with overwhelming probability,
// every signature is valid; it does not report which one failed. An empty
// batch verifies.
func (e *Engine) VerifyBatch(pubs []PublicKey, msgs [][]byte, sigs []*Signature) error {
	if len(pubs) != len(msgs) || len(pubs) != len(sigs) {
		return fmt.Errorf("schnorr: batch has %d keys, %d messages and %d signatures", len(pubs), len(msgs), len(sigs))
	}

	sumS := e.group.NewScalar()
	acc := e.group.NewPoint()
	buf := make([]byte, group.UniformSize)

	for i := range sigs {
		pub, sig := pubs[i], sigs[i]
		if pub.point == nil || sig == nil || sig.R == nil || sig.S == nil {
			return fmt.Errorf("%w: batch entry %d incomplete", ErrMalformedEncoding, i)
		}
		if err := e.sameGroup(pub.group); err != nil {
			return err
		}

		if err := e.Fill(buf[:batchWeightSize]); err != nil {
			return err
		}
		z, err := e.group.NewScalar().SetUniformBytes(buf)
		if err != nil {
			return err
		}

		c := e.Challenge(pub, sig.R, msgs[i])
		zc := e.group.NewScalar().Mul(z, c)
		zs := e.group.NewScalar().Mul(z, sig.S)
		sumS = e.group.NewScalar().Add(sumS, zs)

		zR := e.group.NewPoint().ScalarMult(z, sig.R)
		zcP := e.group.NewPoint().ScalarMult(zc, pub.point)
		acc = e.group.NewPoint().Add(acc, e.group.NewPoint().Add(zR, zcP))
	}

	lhs := e.group.NewPoint().ScalarBaseMult(sumS)
	if !lhs.Equal(acc) {
		e.log.Debug().Int("size", len(sigs)).Msg("batch rejected")
		return ErrInvalidSignature
	}
	return nil
}
