// Package report compares heuristic complexity totals with the linter's
// and renders the mismatches as JSON, SARIF or a console summary.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/astcheck"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// Comparison is one function measured both ways.
type Comparison struct {
	FunctionName     string
	File             string
	Line             int
	ActualComplexity int
	CalculatedTotal  int

	// Boundary is nil when no function boundary starts on Line.
	Boundary       *types.Boundary
	DecisionPoints []types.DecisionPoint
	CrossCheck     *astcheck.Result
}

// Difference is calculated minus actual.
func (c Comparison) Difference() int {
	return c.CalculatedTotal - c.ActualComplexity
}

// PointRef is the short form of a decision point used in reports.
type PointRef struct {
	Type string `json:"type"`
	Line int    `json:"line"`
}

// Mismatch is a function whose totals disagree.
type Mismatch struct {
	FunctionName        string           `json:"functionName"`
	File                string           `json:"file"`
	Line                int              `json:"line"`
	ActualComplexity    int              `json:"actualComplexity"`
	CalculatedTotal     int              `json:"calculatedTotal"`
	Difference          int              `json:"difference"`
	Boundary            *types.Boundary  `json:"boundary"`
	DecisionPointsFound int              `json:"decisionPointsFound"`
	DecisionPoints      []PointRef       `json:"decisionPoints"`
	ASTCrossCheck       *astcheck.Result `json:"astCrossCheck,omitempty"`
}

// Summary holds the run totals.
type Summary struct {
	TotalProcessed  int    `json:"totalProcessed"`
	TotalMismatches int    `json:"totalMismatches"`
	Accuracy        string `json:"accuracy"`
}

// FileError records a file skipped because it could not be processed.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Report is the full result of a run.
type Report struct {
	RunID       string      `json:"runId,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Files       int         `json:"files"`
	Summary     Summary     `json:"summary"`
	Mismatches  []Mismatch  `json:"mismatches"`
	FileErrors  []FileError `json:"fileErrors,omitempty"`
}

// BuildReport turns comparisons into a report. Mismatches are ordered by
// descending absolute difference; ties keep input order.
func BuildReport(comparisons []Comparison) Report {
	mismatches := make([]Mismatch, 0)
	for _, c := range comparisons {
		if c.Difference() == 0 {
			continue
		}
		mismatches = append(mismatches, newMismatch(c))
	}
	sort.SliceStable(mismatches, func(i, j int) bool {
		return abs(mismatches[i].Difference) > abs(mismatches[j].Difference)
	})

	return Report{
		Summary: Summary{
			TotalProcessed:  len(comparisons),
			TotalMismatches: len(mismatches),
			Accuracy:        Accuracy(len(comparisons)-len(mismatches), len(comparisons)),
		},
		Mismatches: mismatches,
	}
}

func newMismatch(c Comparison) Mismatch {
	refs := make([]PointRef, len(c.DecisionPoints))
	for i, p := range c.DecisionPoints {
		refs[i] = PointRef{Type: p.Type, Line: p.Line}
	}

	var cross *astcheck.Result
	if c.CrossCheck != nil {
		normalized := *c.CrossCheck
		if normalized.DecisionPoints == nil {
			normalized.DecisionPoints = []types.DecisionPoint{}
		}
		cross = &normalized
	}

	return Mismatch{
		FunctionName:        c.FunctionName,
		File:                c.File,
		Line:                c.Line,
		ActualComplexity:    c.ActualComplexity,
		CalculatedTotal:     c.CalculatedTotal,
		Difference:          c.Difference(),
		Boundary:            c.Boundary,
		DecisionPointsFound: len(c.DecisionPoints),
		DecisionPoints:      refs,
		ASTCrossCheck:       cross,
	}
}

// Accuracy formats matched/total as a percentage with two decimals. No
// functions at all reads as 0.00%.
func Accuracy(matched, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(matched)/float64(total)*100)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
