// Package keystore reads and writes srsig key files. A key file is a
// small YAML document holding the mini-secret seed together with the
// backends it was generated for, so that a key is never silently
// expanded under a different curve or hash.
package keystore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/sr/schnorr"
)

// Version is the key file format version written by this package.
const Version = 1

var (
	// ErrMismatch is returned when a key file does not match the engine
	// it is loaded into.
	ErrMismatch = errors.New("keystore: key file does not match engine")
	// ErrCorrupt is returned when the stored public key does not match
	// the one derived from the seed.
	ErrCorrupt = errors.New("keystore: corrupt key file")
)

// File is the on-disk key format.
type File struct {
	Version   int    `yaml:"version"`
	Curve     string `yaml:"curve"`
	Hash      string `yaml:"hash"`
	Seed      string `yaml:"seed"`
	PublicKey string `yaml:"public_key"`
}

// New builds a key file for seed under e.
func New(e *schnorr.Engine, seed []byte) (*File, error) {
	kp, err := e.KeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	defer kp.Dispose()
	return &File{
		Version:   Version,
		Curve:     e.Group().Name(),
		Hash:      e.Hash().Name(),
		Seed:      hex.EncodeToString(seed),
		PublicKey: hex.EncodeToString(kp.Public().Bytes()),
	}, nil
}

// KeyPair expands the stored seed under e. The caller owns the result
// and should Dispose it.
func (f *File) KeyPair(e *schnorr.Engine) (*schnorr.KeyPair, error) {
	if f.Version != Version {
		return nil, fmt.Errorf("keystore: unsupported version %d", f.Version)
	}
	if f.Curve != e.Group().Name() || f.Hash != e.Hash().Name() {
		return nil, fmt.Errorf("%w: file is %s/%s, engine is %s/%s",
			ErrMismatch, f.Curve, f.Hash, e.Group().Name(), e.Hash().Name())
	}

	seed, err := hex.DecodeString(f.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: seed: %w", ErrCorrupt, err)
	}
	defer clear(seed)

	kp, err := e.KeyPairFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if hex.EncodeToString(kp.Public().Bytes()) != f.PublicKey {
		kp.Dispose()
		return nil, fmt.Errorf("%w: public key does not match seed", ErrCorrupt)
	}
	return kp, nil
}

// Public decodes the stored public key under e without touching the seed.
func (f *File) Public(e *schnorr.Engine) (schnorr.PublicKey, error) {
	if f.Curve != e.Group().Name() {
		return schnorr.PublicKey{}, fmt.Errorf("%w: file is %s, engine is %s", ErrMismatch, f.Curve, e.Group().Name())
	}
	b, err := hex.DecodeString(f.PublicKey)
	if err != nil {
		return schnorr.PublicKey{}, fmt.Errorf("%w: public key: %w", ErrCorrupt, err)
	}
	return e.ParsePublicKey(b)
}

// Write stores f at path with mode 0600. An existing file is never
// overwritten.
func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("keystore: encode: %w", err)
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("keystore: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("keystore: write %s: %w", path, err)
	}
	return out.Close()
}

// Read loads the key file at path.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &f, nil
}
