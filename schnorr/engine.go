package schnorr

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/random"
	"github.com/f3rmion/sr/ristretto"
)

// DefaultSigningContext is the signing context used by Substrate chains.
const DefaultSigningContext = "substrate"

// Engine performs key generation, signing and verification. It is
// immutable after [New] and safe for concurrent use as long as its
// random source is.
type Engine struct {
	group   group.Group
	hash    digest.Backend
	rand    random.Source
	context []byte
	log     zerolog.Logger
}

// Option configures an [Engine].
type Option func(*Engine) error

// WithGroup selects the curve backend.
func WithGroup(g group.Group) Option {
	return func(e *Engine) error {
		if g == nil {
			return errors.New("nil group")
		}
		e.group = g
		return nil
	}
}

// WithHash selects the digest backend.
func WithHash(b digest.Backend) Option {
	return func(e *Engine) error {
		if b == nil {
			return errors.New("nil hash backend")
		}
		e.hash = b
		return nil
	}
}

// WithRandom installs a randomness source.
func WithRandom(s random.Source) Option {
	return func(e *Engine) error {
		if s == nil {
			return errors.New("nil random source")
		}
		e.rand = s
		return nil
	}
}

// WithSigningContext sets the application label bound into every
// challenge. Signatures only verify under the context they were made in.
func WithSigningContext(ctx []byte) Option {
	return func(e *Engine) error {
		e.context = append([]byte(nil), ctx...)
		return nil
	}
}

// WithLogger sets the logger. The engine never logs secret material.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) error {
		e.log = l
		return nil
	}
}

// New returns an engine configured by opts. Without options it signs
// over ristretto255 with SHA-512, OS randomness and the
// [DefaultSigningContext].
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		group:   ristretto.New(),
		hash:    digest.SHA512(),
		rand:    random.Default(),
		context: []byte(DefaultSigningContext),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("schnorr: %w", err)
		}
	}
	e.log = e.log.With().
		Str("component", "schnorr").
		Str("group", e.group.Name()).
		Str("hash", e.hash.Name()).
		Logger()
	return e, nil
}

// Group returns the engine's curve backend.
func (e *Engine) Group() group.Group { return e.group }

// Hash returns the engine's digest backend.
func (e *Engine) Hash() digest.Backend { return e.hash }

// SigningContext returns a copy of the signing context.
func (e *Engine) SigningContext() []byte {
	return append([]byte(nil), e.context...)
}

// Fill draws len(b) bytes from the engine's random source. Every failure,
// whatever the source, is reported wrapping [ErrEntropyUnavailable].
func (e *Engine) Fill(b []byte) error {
	err := e.rand.Fill(b)
	if err == nil {
		return nil
	}
	e.log.Warn().Err(err).Int("bytes", len(b)).Msg("random source failed")
	if !errors.Is(err, ErrEntropyUnavailable) {
		err = fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}
	return err
}

func (e *Engine) sameGroup(g group.Group) error {
	if g == nil {
		return fmt.Errorf("%w: missing group", ErrMalformedEncoding)
	}
	if g.Name() != e.group.Name() {
		return fmt.Errorf("%w: %s key used with %s engine", ErrGroupMismatch, g.Name(), e.group.Name())
	}
	return nil
}
