package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract/selector"
)

var selectorCmd = &cobra.Command{
	Use:   "selector <name> [type...]",
	Short: "Compute method selectors in both hash families",
	Long: `Compute the canonical signature of a method and its selector under
keccak256 and sm3.
Example: contract-cli selector transfer address u256`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, err := selector.Signature(args[0], args[1:]...)
		if err != nil {
			return err
		}
		pair := selector.PairOf(sig)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "signature: %s\n", sig)
		for _, f := range selector.Families {
			fmt.Fprintf(out, "%-10s %s\n", f.String()+":", pair.For(f))
		}
		return nil
	},
}
