package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/keys"
)

func (a *app) ecdhCmd() *cobra.Command {
	var (
		flagKey  string
		flagPeer string
		flagKDF  string
	)

	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Compute a Diffie-Hellman shared secret",
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
			peer, err := keys.PublicKeyFromHex(c, flagPeer)
			if err != nil {
				return fmt.Errorf("invalid --peer: %w", err)
			}

			var secret []byte
			if strings.EqualFold(flagKDF, "none") {
				secret, err = keys.SharedSecret(priv, peer)
			} else {
				alg, perr := hashes.Parse(flagKDF)
				if perr != nil {
					return perr
				}
				secret, err = keys.SharedSecretHash(priv, peer, alg)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagKey, "key", "", "own private key (hex or base64)")
	_ = cmd.MarkFlagRequired("key")
	cmd.Flags().StringVar(&flagPeer, "peer", "", "peer public key (hex)")
	_ = cmd.MarkFlagRequired("peer")
	cmd.Flags().StringVar(&flagKDF, "kdf", "sha256d", "hash applied to the shared x coordinate, or none")
	return cmd
}
