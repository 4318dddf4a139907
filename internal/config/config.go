// Package config loads srsig settings from defaults, an optional YAML
// file and SRSIG_* environment variables, and turns them into a
// configured signature engine.
//
// Precedence (highest first):
//  1. Command-line flags bound by the caller
//  2. Environment variables (SRSIG_* prefix)
//  3. Config file (--config)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/f3rmion/sr/bjj"
	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/ristretto"
	"github.com/f3rmion/sr/schnorr"
	"github.com/f3rmion/sr/secp256k1"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SRSIG"

// Keys understood by the loader.
const (
	KeyCurve    = "curve"
	KeyHash     = "hash"
	KeyContext  = "context"
	KeyLogLevel = "log_level"
)

var (
	// ErrUnknownCurve is returned for a curve name with no backend.
	ErrUnknownCurve = errors.New("config: unknown curve")
	// ErrUnknownHash is returned for a hash name with no backend.
	ErrUnknownHash = errors.New("config: unknown hash")
	// ErrInvalidLogLevel is returned when log_level does not parse.
	ErrInvalidLogLevel = errors.New("config: invalid log level")
)

// Config is the resolved srsig configuration.
type Config struct {
	// Curve names the group backend, see [Curves].
	Curve string `yaml:"curve" mapstructure:"curve"`
	// Hash names the digest backend, see [digest.Names].
	Hash string `yaml:"hash" mapstructure:"hash"`
	// Context is the signing context bound into every challenge.
	Context string `yaml:"context" mapstructure:"context"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

var curves = map[string]func() group.Group{
	"ristretto255": func() group.Group { return ristretto.New() },
	"babyjubjub":   func() group.Group { return &bjj.BJJ{} },
	"secp256k1":    func() group.Group { return secp256k1.New() },
}

// Curves lists the available curve names in sorted order.
func Curves() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GroupByName returns the group backend called name.
func GroupByName(name string) (group.Group, error) {
	newGroup, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownCurve, name, Curves())
	}
	return newGroup(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Curve:    "ristretto255",
		Hash:     digest.SHA512().Name(),
		Context:  schnorr.DefaultSigningContext,
		LogLevel: zerolog.WarnLevel.String(),
	}
}

// NewViper returns a viper instance with defaults and environment
// binding applied. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyCurve, d.Curve)
	v.SetDefault(KeyHash, d.Hash)
	v.SetDefault(KeyContext, d.Context)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if non-empty) into v and returns the validated result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every name resolves to a backend.
func (c *Config) Validate() error {
	if _, ok := curves[c.Curve]; !ok {
		return fmt.Errorf("%w: %q (have %v)", ErrUnknownCurve, c.Curve, Curves())
	}
	if _, err := digest.ByName(c.Hash); err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownHash, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return lvl, nil
}

// Engine builds a signature engine for the configuration.
func (c *Config) Engine(log zerolog.Logger, opts ...schnorr.Option) (*schnorr.Engine, error) {
	g, err := GroupByName(c.Curve)
	if err != nil {
		return nil, err
	}
	h, err := digest.ByName(c.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownHash, err)
	}
	base := []schnorr.Option{
		schnorr.WithGroup(g),
		schnorr.WithHash(h),
		schnorr.WithSigningContext([]byte(c.Context)),
		schnorr.WithLogger(log),
	}
	return schnorr.New(append(base, opts...)...)
}
