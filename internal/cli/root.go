// Package cli provides the command-line interface for srsig.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/internal/config"
	"github.com/f3rmion/sr/schnorr"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// app carries the state resolved in PersistentPreRunE to subcommands.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	engine     *schnorr.Engine
	log        zerolog.Logger
}

// newRootCmd creates the root command and its subcommands.
func newRootCmd(info BuildInfo) *cobra.Command {
	a := &app{v: config.NewViper(), log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "srsig",
		Short: "Schnorr signatures over ristretto255, Baby Jubjub and secp256k1",
		Long: `srsig generates key files, signs messages and verifies signatures
with hedged Schnorr signatures. The curve, hash and signing context are
read from flags, SRSIG_* environment variables or a YAML config file.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.String("curve", "", fmt.Sprintf("group backend %v", config.Curves()))
	flags.String("hash", "", fmt.Sprintf("hash backend %v", digest.Names()))
	flags.String("context", "", "signing context")
	flags.String("log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(
		newKeygenCmd(a),
		newPubCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newDeriveCmd(a),
		newVRFSignCmd(a),
		newVRFVerifyCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()
	bindings := map[string]string{
		config.KeyCurve:    "curve",
		config.KeyHash:     "hash",
		config.KeyContext:  "context",
		config.KeyLogLevel: "log-level",
	}
	for key, flag := range bindings {
		if f := rootFlags.Lookup(flag); f != nil && f.Changed {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cmd.ErrOrStderr(), lvl)

	a.engine, err = cfg.Engine(a.log)
	if err != nil {
		return err
	}
	a.log.Debug().
		Str("curve", cfg.Curve).
		Str("hash", cfg.Hash).
		Str("context", cfg.Context).
		Msg("configuration loaded")
	return nil
}

// newLogger returns a console logger writing to w.
func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("app", "srsig").Logger()
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	return fmt.Sprintf("%s (commit: %s)", info.Version, info.Commit)
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context, info BuildInfo) error {
	cmd := newRootCmd(info)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(ctx)
}
