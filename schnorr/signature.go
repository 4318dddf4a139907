package schnorr

import (
	"fmt"

	"github.com/f3rmion/sr/group"
)

// Signature is a commitment R and a response s. It has no hidden state.
type Signature struct {
	R group.Point
	S group.Scalar
}

// Bytes encodes the signature as R || s with no length prefix. It
// returns nil for a nil or incomplete signature.
func (sig *Signature) Bytes() []byte {
	if sig == nil || sig.R == nil || sig.S == nil {
		return nil
	}
	r := sig.R.Bytes()
	out := make([]byte, 0, len(r)+len(sig.S.Bytes()))
	out = append(out, r...)
	return append(out, sig.S.Bytes()...)
}

// SignatureSize is the encoded signature length for the engine's group.
func (e *Engine) SignatureSize() int {
	return e.group.PointSize() + e.group.ScalarSize()
}

// ParseSignature decodes R || s. It fails with [ErrMalformedEncoding] on
// a wrong length, an invalid point or a non-canonical scalar.
func (e *Engine) ParseSignature(b []byte) (*Signature, error) {
	if len(b) != e.SignatureSize() {
		return nil, fmt.Errorf("%w: signature length %d, want %d", ErrMalformedEncoding, len(b), e.SignatureSize())
	}
	n := e.group.PointSize()
	R, err := e.group.NewPoint().SetBytes(b[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: commitment: %w", ErrMalformedEncoding, err)
	}
	s, err := e.group.NewScalar().SetBytes(b[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: response: %w", ErrMalformedEncoding, err)
	}
	return &Signature{R: R, S: s}, nil
}
