package cmd

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecckit/internal/crypto/curves"
)

func (a *app) curvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List the known curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFORM\tBITS\tSIGNING\tORDER")
			for _, name := range curves.Names() {
				p, err := curves.LookupParams(name)
				if err != nil {
					return err
				}
				_, lookupErr := curves.Lookup(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%x\n", p.Name, p.Form, p.BitSize, lookupErr == nil, p.N)
			}
			return w.Flush()
		},
	}
}

func (a *app) pointCmd() *cobra.Command {
	var flagScalar string

	cmd := &cobra.Command{
		Use:   "point",
		Short: "Print the encoding of k·G on any curve with a group law, ed25519 included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := curves.ParseName(a.v.GetString("curve"))
			if err != nil {
				return err
			}
			g, err := curves.GroupFor(name)
			if err != nil {
				return err
			}

			k, ok := new(big.Int).SetString(flagScalar, 0)
			if !ok {
				return fmt.Errorf("invalid --scalar %q", flagScalar)
			}
			if k.Sign() <= 0 || k.Cmp(g.Order()) >= 0 {
				return fmt.Errorf("--scalar must be in [1, %s)", g.Order())
			}

			b, err := g.ScalarBaseMultBytes(k)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&flagScalar, "scalar", "1", "scalar k (decimal, or 0x-prefixed hex)")
	return cmd
}
