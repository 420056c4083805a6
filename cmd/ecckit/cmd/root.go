package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
	"github.com/smallyu/go-ecckit/internal/crypto/hashes"
	"github.com/smallyu/go-ecckit/internal/crypto/schemes"
	"github.com/smallyu/go-ecckit/pkg/ecc"
)

const envPrefix = "ECCKIT"

// app carries the configuration shared by every subcommand.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

// NewRootCmd builds the ecckit command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:          "ecckit",
		Short:        "Elliptic curve keys, signatures and key agreement",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	f := root.PersistentFlags()
	f.String("config", "", "config file (yaml, json or toml)")
	f.String("curve", string(curves.NameSecp256k1), "curve name")
	f.String("hash", "sha256", "digest algorithm applied to --message")
	f.String("scheme", schemes.ECDSA, "signature scheme: "+strings.Join(schemes.Names(), " or "))
	f.String("nonce", schemes.NonceRFC6979, "ECDSA nonce source: rfc6979 or random")
	f.String("low-s", "auto", "low-S normalization: auto, true or false")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlags(f)

	root.AddCommand(
		a.keygenCmd(),
		a.pubkeyCmd(),
		a.signCmd(),
		a.verifyCmd(),
		a.ecdhCmd(),
		a.curvesCmd(),
		a.pointCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if file := a.v.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Str("cmd", cmd.Name()).
		Logger()
	return nil
}

// curve resolves --curve to a short Weierstrass curve.
func (a *app) curve() (*curves.Curve, error) {
	name, err := curves.ParseName(a.v.GetString("curve"))
	if err != nil {
		return nil, err
	}
	return curves.Lookup(name)
}

func (a *app) hash() (hashes.Algorithm, error) {
	return hashes.Parse(a.v.GetString("hash"))
}

func (a *app) parameters() (*ecc.Parameters, error) {
	p := &ecc.Parameters{
		Scheme: a.v.GetString("scheme"),
		Curve:  a.v.GetString("curve"),
		Hash:   a.v.GetString("hash"),
		Nonce:  a.v.GetString("nonce"),
	}
	if lowS := a.v.GetString("low-s"); !strings.EqualFold(lowS, "auto") {
		b, err := cast.ToBoolE(lowS)
		if err != nil {
			return nil, fmt.Errorf("invalid --low-s value %q: %w", lowS, err)
		}
		p.LowS = &b
	}
	return p, nil
}

func (a *app) scheme() (ecc.Scheme, error) {
	p, err := a.parameters()
	if err != nil {
		return nil, err
	}
	return schemes.New(p, schemes.WithLogger(a.log))
}

// digest returns the --digest bytes when given, otherwise the --hash of
// --message.
func (a *app) digest(cmd *cobra.Command) ([]byte, error) {
	message, _ := cmd.Flags().GetString("message")
	digestHex, _ := cmd.Flags().GetString("digest")

	switch {
	case digestHex != "" && message != "":
		return nil, fmt.Errorf("--message and --digest are mutually exclusive")
	case digestHex != "":
		b, err := hex.DecodeString(digestHex)
		if err != nil {
			return nil, fmt.Errorf("invalid --digest: %w", err)
		}
		return b, nil
	}

	alg, err := a.hash()
	if err != nil {
		return nil, err
	}
	return alg.Sum([]byte(message)), nil
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("message", "", "message to hash and sign")
	cmd.Flags().String("digest", "", "hex-encoded message digest")
}
