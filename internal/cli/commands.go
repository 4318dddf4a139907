package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/sr/internal/keystore"
	"github.com/f3rmion/sr/schnorr"
)

func newKeygenCmd(a *app) *cobra.Command {
	var out, seedHex string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key file and print its public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var seed []byte
			var err error
			if seedHex != "" {
				seed, err = hex.DecodeString(seedHex)
				if err != nil {
					return fmt.Errorf("invalid --seed: %w", err)
				}
			} else {
				seed, err = a.engine.NewSeed()
				if err != nil {
					return err
				}
			}
			defer clear(seed)

			f, err := keystore.New(a.engine, seed)
			if err != nil {
				return err
			}
			if err := keystore.Write(out, f); err != nil {
				return err
			}
			a.log.Info().Str("path", out).Msg("key file written")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f.PublicKey)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "path of the key file to create")
	cmd.Flags().StringVar(&seedHex, "seed", "", "hex-encoded 32-byte seed (random if empty)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newPubCmd(a *app) *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "pub",
		Short: "Print the public key of a key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := keystore.Read(keyPath)
			if err != nil {
				return err
			}
			pub, err := f.Public(a.engine)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(pub.Bytes()))
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "path of the key file")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var keyPath string
	var msg messageFlags
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message and print the signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := keystore.Read(keyPath)
			if err != nil {
				return err
			}
			kp, err := f.KeyPair(a.engine)
			if err != nil {
				return err
			}
			defer kp.Dispose()

			m, err := msg.read(cmd)
			if err != nil {
				return err
			}
			sig, err := a.engine.Sign(kp, m)
			if err != nil {
				return err
			}
			a.log.Debug().Int("message_bytes", len(m)).Msg("message signed")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig.Bytes()))
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "path of the key file")
	_ = cmd.MarkFlagRequired("key")
	msg.register(cmd)
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var pubHex, sigHex string
	var msg messageFlags
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature; exits non-zero if it is invalid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := hex.DecodeString(pubHex)
			if err != nil {
				return fmt.Errorf("invalid --pub: %w", err)
			}
			sig, err := hex.DecodeString(sigHex)
			if err != nil {
				return fmt.Errorf("invalid --sig: %w", err)
			}
			m, err := msg.read(cmd)
			if err != nil {
				return err
			}
			if err := a.engine.VerifyBytes(pub, m, sig); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return err
		},
	}
	cmd.Flags().StringVar(&pubHex, "pub", "", "hex-encoded public key")
	cmd.Flags().StringVar(&sigHex, "sig", "", "hex-encoded signature")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("sig")
	msg.register(cmd)
	return cmd
}

func newDeriveCmd(a *app) *cobra.Command {
	var pubHex, ccHex string
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a soft child public key and print it with the next chain code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := hex.DecodeString(pubHex)
			if err != nil {
				return fmt.Errorf("invalid --pub: %w", err)
			}
			pub, err := a.engine.ParsePublicKey(b)
			if err != nil {
				return err
			}
			raw, err := hex.DecodeString(ccHex)
			if err != nil || len(raw) != schnorr.ChainCodeSize {
				return fmt.Errorf("--chain-code must be %d hex-encoded bytes", schnorr.ChainCodeSize)
			}
			var cc schnorr.ChainCode
			copy(cc[:], raw)

			child, next, err := a.engine.DerivePublicSoft(pub, cc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				hex.EncodeToString(child.Bytes()), hex.EncodeToString(next[:]))
			return err
		},
	}
	cmd.Flags().StringVar(&pubHex, "pub", "", "hex-encoded parent public key")
	cmd.Flags().StringVar(&ccHex, "chain-code", "", "hex-encoded 32-byte chain code")
	_ = cmd.MarkFlagRequired("pub")
	_ = cmd.MarkFlagRequired("chain-code")
	return cmd
}

func newVRFSignCmd(a *app) *cobra.Command {
	var keyPath, thresholdHex string
	var msg messageFlags
	cmd := &cobra.Command{
		Use:   "vrf-sign",
		Short: "Evaluate the VRF on a message and print the output and proof",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			threshold, err := parseThreshold(thresholdHex)
			if err != nil {
				return err
			}
			f, err := keystore.Read(keyPath)
			if err != nil {
				return err
			}
			kp, err := f.KeyPair(a.engine)
			if err != nil {
				return err
			}
			defer kp.Dispose()

			m, err := msg.read(cmd)
			if err != nil {
				return err
			}
			out, proof, less, err := a.engine.VRFSignIfLess(kp, m, threshold)
			if err != nil {
				return err
			}
			if !less {
				return schnorr.ErrVRFThreshold
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				hex.EncodeToString(out.Bytes()), hex.EncodeToString(proof.Bytes()))
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "path of the key file")
	cmd.Flags().StringVar(&thresholdHex, "threshold", "", "hex-encoded 16-byte little-endian threshold (all ones if empty)")
	_ = cmd.MarkFlagRequired("key")
	msg.register(cmd)
	return cmd
}

func newVRFVerifyCmd(a *app) *cobra.Command {
	var pubHex, outHex, proofHex, thresholdHex string
	var msg messageFlags
	cmd := &cobra.Command{
		Use:   "vrf-verify",
		Short: "Verify a VRF output and proof and print the output randomness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			threshold, err := parseThreshold(thresholdHex)
			if err != nil {
				return err
			}
			pub, err := decodeHex("pub", pubHex, a.engine.ParsePublicKey)
			if err != nil {
				return err
			}
			out, err := decodeHex("out", outHex, a.engine.ParseVRFOutput)
			if err != nil {
				return err
			}
			proof, err := decodeHex("proof", proofHex, a.engine.ParseVRFProof)
			if err != nil {
				return err
			}
			m, err := msg.read(cmd)
			if err != nil {
				return err
			}
			if err := a.engine.VRFVerify(pub, m, out, proof, threshold); err != nil {
				return err
			}
			rnd, err := a.engine.VRFRandomness(pub, m, out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(rnd))
			return err
		},
	}
	cmd.Flags().StringVar(&pubHex, "pub", "", "hex-encoded public key")
	cmd.Flags().StringVar(&outHex, "out", "", "hex-encoded VRF output")
	cmd.Flags().StringVar(&proofHex, "proof", "", "hex-encoded VRF proof")
	cmd.Flags().StringVar(&thresholdHex, "threshold", "", "hex-encoded 16-byte little-endian threshold (all ones if empty)")
	for _, name := range []string{"pub", "out", "proof"} {
		_ = cmd.MarkFlagRequired(name)
	}
	msg.register(cmd)
	return cmd
}

// decodeHex hex-decodes the value of flag name and parses it.
func decodeHex[T any](name, s string, parse func([]byte) (T, error)) (T, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return parse(b)
}

func parseThreshold(s string) (schnorr.VRFThreshold, error) {
	if s == "" {
		return schnorr.MaxVRFThreshold(), nil
	}
	var t schnorr.VRFThreshold
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != schnorr.VRFThresholdSize {
		return t, fmt.Errorf("--threshold must be %d hex-encoded bytes", schnorr.VRFThresholdSize)
	}
	copy(t[:], raw)
	return t, nil
}

// messageFlags selects the message from --message or --in.
type messageFlags struct {
	text string
	in   string
}

func (m *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&m.text, "message", "m", "", "message text")
	cmd.Flags().StringVar(&m.in, "in", "", "read the message from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("message", "in")
}

func (m *messageFlags) read(cmd *cobra.Command) ([]byte, error) {
	switch m.in {
	case "":
		return []byte(m.text), nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		return os.ReadFile(m.in)
	}
}
