package schnorr

import (
	"errors"

	"github.com/f3rmion/sr/random"
)

var (
	// ErrEntropyUnavailable is returned when the random source fails.
	// The engine never retries; that decision belongs to the caller.
	ErrEntropyUnavailable = random.ErrEntropyUnavailable

	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = errors.New("schnorr: invalid signature")

	// ErrMalformedEncoding is returned when a key, scalar or signature
	// does not decode to a valid value.
	ErrMalformedEncoding = errors.New("schnorr: malformed encoding")

	// ErrKeyPairDisposed is returned when a disposed key pair is used.
	ErrKeyPairDisposed = errors.New("schnorr: key pair disposed")

	// ErrDegenerateKey is returned when key material reduces to zero.
	ErrDegenerateKey = errors.New("schnorr: degenerate secret key")

	// ErrGroupMismatch is returned when a key from one group is used
	// with an engine over another.
	ErrGroupMismatch = errors.New("schnorr: group mismatch")

	// ErrVRFThreshold is returned when a VRF proof is valid but its
	// output is not below the requested threshold.
	ErrVRFThreshold = errors.New("schnorr: vrf output not below threshold")
)
