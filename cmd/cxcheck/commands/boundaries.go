package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// boundariesCmd represents the boundaries command
var boundariesCmd = &cobra.Command{
	Use:   "boundaries <file>",
	Short: "Show the function boundaries of a file",
	Long:  `Parses a file and lists every function with its kind and line range.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), src.Functions)
		}
		printBoundaries(cmd.OutOrStdout(), src.Path, src.Functions)
		return nil
	},
}

func printBoundaries(w io.Writer, path string, functions []types.FunctionInfo) {
	fmt.Fprintf(w, "=== %s ===\n", path)
	if len(functions) == 0 {
		fmt.Fprintln(w, "No functions found.")
		return
	}
	for _, fn := range functions {
		fmt.Fprintf(w, "  %5d-%-5d  %-20s  %s\n", fn.Start, fn.End, fn.Kind, fn.Name)
	}
}

func init() {
	boundariesCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(boundariesCmd)
}
