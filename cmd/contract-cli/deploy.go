package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/runtime"
	"github.com/govm-net/contract/types"
)

var (
	codeFile     string
	contractAddr string
	senderAddr   string
	argTypes     []string
	argValues    []string
	blockNumber  uint64
	blockTime    uint64
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a WebAssembly contract",
	Long: `Deploy a WebAssembly contract at the given address and run its constructor.
Example: contract-cli deploy -f incrementer.wasm -a 0x1001 --types u128 --args 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(codeFile)
		if err != nil {
			return fmt.Errorf("failed to read wasm file: %w", err)
		}
		input, err := encodeArgs(argTypes, argValues)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		s.runtime.SetBlock(blockNumber, blockTime)
		receipt, err := s.runtime.DeployWasm(ctx,
			types.AddressFromString(senderAddr),
			types.AddressFromString(contractAddr),
			code, input)
		if err != nil {
			return fmt.Errorf("failed to deploy contract: %w", err)
		}
		return printReceipt(cmd, receipt, codec.Tuple{})
	},
}

func init() {
	deployCmd.Flags().StringVarP(&codeFile, "file", "f", "", "WebAssembly file of the contract (required)")
	addInvocationFlags(deployCmd)
	deployCmd.MarkFlagRequired("file")
}

// addInvocationFlags registers the flags shared by deploy and call.
func addInvocationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&contractAddr, "address", "a", "", "Contract address (required)")
	cmd.Flags().StringVarP(&senderAddr, "sender", "s", "0x01", "Caller address")
	cmd.Flags().StringSliceVar(&argTypes, "types", nil, "Argument types, e.g. address,u256")
	cmd.Flags().StringSliceVar(&argValues, "args", nil, "Argument values")
	cmd.Flags().Uint64Var(&blockNumber, "block", 1, "Block number")
	cmd.Flags().Uint64Var(&blockTime, "timestamp", 0, "Block timestamp")
	cmd.MarkFlagRequired("address")
}

func encodeArgs(typeExprs, values []string) ([]byte, error) {
	tuple, err := codec.NewTuple(typeExprs...)
	if err != nil {
		return nil, err
	}
	parsed, err := tuple.ParseValues(values)
	if err != nil {
		return nil, err
	}
	return tuple.Encode(parsed...)
}

func printReceipt(cmd *cobra.Command, receipt *runtime.Receipt, outputs codec.Tuple) error {
	out := cmd.OutOrStdout()
	if !receipt.Success {
		fmt.Fprintf(out, "status: reverted\n")
		fmt.Fprintf(out, "reason: %s\n", receipt.Message)
		return nil
	}
	fmt.Fprintf(out, "status: success\n")
	if outputs.Len() > 0 {
		values, err := outputs.Decode(receipt.Output)
		if err != nil {
			return fmt.Errorf("failed to decode output: %w", err)
		}
		fmt.Fprintf(out, "output: %s\n", formatValues(values))
	} else if len(receipt.Output) > 0 {
		fmt.Fprintf(out, "output: 0x%x\n", receipt.Output)
	}
	for i, ev := range receipt.Events {
		topics := make([]string, len(ev.Topics))
		for j, t := range ev.Topics {
			topics[j] = t.String()
		}
		fmt.Fprintf(out, "event %d: contract=%s topics=[%s] data=0x%x\n",
			i, ev.Contract, strings.Join(topics, ","), ev.Data)
	}
	return nil
}

func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case []byte:
			parts[i] = fmt.Sprintf("0x%x", x)
		default:
			parts[i] = fmt.Sprint(x)
		}
	}
	return strings.Join(parts, ", ")
}
