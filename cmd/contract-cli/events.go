package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract/types"
)

var eventsCmd = &cobra.Command{
	Use:   "events [address]",
	Short: "List recorded events, optionally of one contract",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var contract types.Address
		if len(args) == 1 {
			contract = types.AddressFromString(args[0])
		}

		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		events, err := s.store.Events(contract)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, ev := range events {
			fmt.Fprintf(out, "block=%d contract=%s topics=%d data=0x%x\n",
				ev.Block, ev.Contract, len(ev.Topics), ev.Data)
			for _, t := range ev.Topics {
				fmt.Fprintf(out, "  %s\n", t)
			}
		}
		return nil
	},
}
