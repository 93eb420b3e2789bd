package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/types"
)

var (
	methodName  string
	returnTypes []string
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Call a method of a deployed contract",
	Long: `Call a method of a deployed contract. The selector is computed from the
method name and argument types with the configured hash family.
Example: contract-cli call -a 0x1001 -m inc_by --types u128 --args 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := codec.NewMethod(methodName, argTypes, returnTypes)
		if err != nil {
			return err
		}
		tuple, err := codec.NewTuple(argTypes...)
		if err != nil {
			return err
		}
		values, err := tuple.ParseValues(argValues)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		input, err := s.runtime.EncodeCall(m, values...)
		if err != nil {
			return err
		}
		s.runtime.SetBlock(blockNumber, blockTime)
		receipt, err := s.runtime.Call(ctx,
			types.AddressFromString(senderAddr),
			types.AddressFromString(contractAddr),
			input)
		if err != nil {
			return fmt.Errorf("failed to call contract: %w", err)
		}
		return printReceipt(cmd, receipt, m.Outputs)
	},
}

func init() {
	callCmd.Flags().StringVarP(&methodName, "method", "m", "", "Method name (required)")
	callCmd.Flags().StringSliceVar(&returnTypes, "returns", nil, "Return types, e.g. u128")
	addInvocationFlags(callCmd)
	callCmd.MarkFlagRequired("method")
}
