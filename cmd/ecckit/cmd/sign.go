package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInvalidSignature = errors.New("signature is invalid")

func (a *app) signCmd() *cobra.Command {
	var flagKey string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message or digest",
		Long: "Sign a message or digest. ECDSA signatures are printed as DER hex, " +
			"Schnorr signatures as 128 character r || s hex.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.curve()
			if err != nil {
				return err
			}
			priv, err := parsePrivateKey(c, flagKey)
			if err != nil {
				return err
			}
			digest, err := a.digest(cmd)
			if err != nil {
				return err
			}
			s, err := a.scheme()
			if err != nil {
				return err
			}

			sig, err := s.Sign(digest, priv.Bytes())
			if err != nil {
				return fmt.Errorf("signing: %w", err)
			}
			a.log.Debug().Str("scheme", s.Name()).Str("curve", s.Curve()).Msg("signed digest")
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagKey, "key", "", "private key (hex or base64)")
	_ = cmd.MarkFlagRequired("key")
	addMessageFlags(cmd)
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		flagPubKey    string
		flagSignature string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature over a message or digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := hex.DecodeString(flagPubKey)
			if err != nil {
				return fmt.Errorf("invalid --pubkey: %w", err)
			}
			sig, err := hex.DecodeString(flagSignature)
			if err != nil {
				return fmt.Errorf("invalid --signature: %w", err)
			}
			digest, err := a.digest(cmd)
			if err != nil {
				return err
			}
			s, err := a.scheme()
			if err != nil {
				return err
			}

			ok, err := s.Verify(digest, sig, pub)
			if err != nil {
				return err
			}
			if !ok {
				return errInvalidSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&flagPubKey, "pubkey", "", "hex public key, compressed or uncompressed")
	_ = cmd.MarkFlagRequired("pubkey")
	cmd.Flags().StringVar(&flagSignature, "signature", "", "hex signature")
	_ = cmd.MarkFlagRequired("signature")
	addMessageFlags(cmd)
	return cmd
}
