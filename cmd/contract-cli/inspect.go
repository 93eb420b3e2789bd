package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/govm-net/contract/runtime"
	"github.com/govm-net/contract/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wasm>",
	Short: "List the imports and exports of a WebAssembly contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read wasm file: %w", err)
		}
		info, err := runtime.Inspect(cmd.Context(), code)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "imports:")
		for _, name := range info.Imports {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		fmt.Fprintln(out, "exports:")
		for _, name := range info.Exports {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		for _, entry := range []string{types.EntryDeploy, types.EntryCall} {
			if !slices.Contains(info.Exports, entry) {
				fmt.Fprintf(out, "warning: entry point %q is not exported\n", entry)
			}
		}
		if len(info.Missing) > 0 {
			return fmt.Errorf("unknown host functions imported: %v", info.Missing)
		}
		return nil
	},
}
