package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/astcheck"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/decision"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// ExtractOutput is the JSON form of the extract command.
type ExtractOutput struct {
	File           string                `json:"file"`
	Language       boundary.Language     `json:"language"`
	Functions      []ExtractFunction     `json:"functions"`
	DecisionPoints []types.DecisionPoint `json:"decisionPoints"`
}

// ExtractFunction is one function with its heuristic total.
type ExtractFunction struct {
	Name            string             `json:"name"`
	Kind            types.FunctionKind `json:"kind"`
	Boundary        types.Boundary     `json:"boundary"`
	Counts          map[string]int     `json:"counts"`
	CalculatedTotal int                `json:"calculatedTotal"`
	ASTCrossCheck   *astcheck.Result   `json:"astCrossCheck,omitempty"`
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Show the decision points found in a file",
	Long: `Finds every decision point in a JavaScript or TypeScript file, attributes
each to its owning function and prints the per-function complexity totals.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		crossCheck, _ := cmd.Flags().GetBool("cross-check")

		out, err := buildExtractOutput(cmd, src, crossCheck)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		printExtract(cmd.OutOrStdout(), out)
		return nil
	},
}

func buildExtractOutput(cmd *cobra.Command, src *sourceFile, crossCheck bool) (*ExtractOutput, error) {
	boundaries := types.BoundariesOf(src.Functions)
	points := decision.ExtractWithFunctions(string(src.Content), boundaries, src.Functions)
	breakdown := decision.Breakdown(points, boundaries)
	if points == nil {
		points = []types.DecisionPoint{}
	}

	var cross map[int]astcheck.Result
	if crossCheck {
		var err error
		cross, err = astcheck.Check(cmd.Context(), src.Content, src.Language)
		if err != nil {
			return nil, fmt.Errorf("cross-checking: %w", err)
		}
	}

	out := &ExtractOutput{
		File:           src.Path,
		Language:       src.Language,
		Functions:      make([]ExtractFunction, 0, len(breakdown)),
		DecisionPoints: points,
	}
	seen := make(map[int]bool, len(src.Functions))
	for _, fn := range src.Functions {
		fb, ok := breakdown[fn.Start]
		if !ok || seen[fn.Start] {
			continue
		}
		seen[fn.Start] = true

		ef := ExtractFunction{
			Name:            fn.Name,
			Kind:            fn.Kind,
			Boundary:        fb.Boundary,
			Counts:          fb.Counts,
			CalculatedTotal: fb.Total,
		}
		if res, ok := cross[fn.Start]; ok {
			ef.ASTCrossCheck = &res
		}
		out.Functions = append(out.Functions, ef)
	}
	sort.SliceStable(out.Functions, func(i, j int) bool {
		return out.Functions[i].Boundary.Start < out.Functions[j].Boundary.Start
	})
	return out, nil
}

func printExtract(w io.Writer, out *ExtractOutput) {
	fmt.Fprintf(w, "=== %s (%s) ===\n", out.File, out.Language)

	byFunction := make(map[int][]types.DecisionPoint)
	for _, p := range out.DecisionPoints {
		byFunction[p.FunctionLine] = append(byFunction[p.FunctionLine], p)
	}

	if len(out.Functions) == 0 {
		fmt.Fprintln(w, "\nNo functions found.")
		return
	}

	for _, fn := range out.Functions {
		fmt.Fprintf(w, "\n%s (lines %d-%d): complexity %d", fn.Name, fn.Boundary.Start, fn.Boundary.End, fn.CalculatedTotal)
		if fn.ASTCrossCheck != nil {
			fmt.Fprintf(w, " [ast %d]", fn.ASTCrossCheck.CalculatedTotal)
		}
		fmt.Fprintln(w)
		for _, p := range byFunction[fn.Boundary.Start] {
			fmt.Fprintf(w, "  %5d  %s\n", p.Line, p.Name)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	extractCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	extractCmd.Flags().Bool("cross-check", false, "Add the syntax tree count for each function")
	RootCmd.AddCommand(extractCmd)
}
