package cmd

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/drbg"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
)

func (a *app) keygenCmd() *cobra.Command {
	var (
		flagFormat  string
		flagEntropy string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a private/public key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.curve()
			if err != nil {
				return err
			}

			var source io.Reader = rand.Reader
			if flagEntropy != "" {
				entropy, err := hex.DecodeString(flagEntropy)
				if err != nil {
					return fmt.Errorf("invalid --entropy: %w", err)
				}
				source, err = drbg.New(sha256.New, entropy, nil, []byte("ecckit keygen"))
				if err != nil {
					return err
				}
				a.log.Warn().Msg("deriving key from caller-supplied entropy")
			}

			kp, err := keys.GenerateKeyPair(c, source)
			if err != nil {
				return err
			}
			a.log.Debug().Str("curve", c.String()).Msg("generated key pair")

			priv := kp.Private.Hex()
			if flagFormat == "base64" {
				priv = kp.Private.Base64()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "private: %s\n", priv)
			fmt.Fprintf(out, "public:  %s\n", kp.Public.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "hex", "private key encoding: hex or base64")
	cmd.Flags().StringVar(&flagEntropy, "entropy", "",
		"hex entropy (at least 24 bytes) for a reproducible HMAC_DRBG key source")
	return cmd
}

func (a *app) pubkeyCmd() *cobra.Command {
	var (
		flagKey          string
		flagUncompressed bool
	)

	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Derive the public key of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.curve()
			if err != nil {
				return err
			}
			priv, err := parsePrivateKey(c, flagKey)
			if err != nil {
				return err
			}

			pub := priv.PublicKey()
			b := pub.SerializeCompressed()
			if flagUncompressed {
				b = pub.SerializeUncompressed()
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagKey, "key", "", "private key (hex or base64)")
	_ = cmd.MarkFlagRequired("key")
	cmd.Flags().BoolVar(&flagUncompressed, "uncompressed", false, "print the 65 byte uncompressed form")
	return cmd
}

// parsePrivateKey accepts hex and falls back to base64.
func parsePrivateKey(c *curves.Curve, s string) (*keys.PrivateKey, error) {
	priv, err := keys.PrivateKeyFromHex(c, s)
	if err == nil {
		return priv, nil
	}
	if fromB64, b64Err := keys.PrivateKeyFromBase64(c, s); b64Err == nil {
		return fromB64, nil
	}
	return nil, err
}
