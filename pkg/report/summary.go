package report

import (
	"fmt"
	"io"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// PrintSummary writes the run totals and the topN largest mismatches to w.
// Positive differences are printed with a leading +. A topN of zero or
// less prints the totals only.
func PrintSummary(w io.Writer, report Report, topN int, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintf(w, "%s\n", paint(colorBold, "Complexity check"))
	fmt.Fprintf(w, "  Functions processed: %d\n", report.Summary.TotalProcessed)
	fmt.Fprintf(w, "  Mismatches:          %d\n", report.Summary.TotalMismatches)
	fmt.Fprintf(w, "  Accuracy:            %s\n", report.Summary.Accuracy)
	if len(report.FileErrors) > 0 {
		fmt.Fprintf(w, "  Files skipped:       %d\n", len(report.FileErrors))
	}

	if len(report.Mismatches) == 0 || topN <= 0 {
		return
	}

	shown := report.Mismatches
	if len(shown) > topN {
		shown = shown[:topN]
	}
	fmt.Fprintf(w, "\nTop %d mismatches:\n", len(shown))
	for _, m := range shown {
		diff := signed(m.Difference)
		if m.Difference > 0 {
			diff = paint(colorRed, diff)
		} else {
			diff = paint(colorGreen, diff)
		}
		fmt.Fprintf(w, "  %s  %s:%d  %s (actual %d, calculated %d)\n",
			diff, m.File, m.Line, m.FunctionName, m.ActualComplexity, m.CalculatedTotal)
	}
	if rest := len(report.Mismatches) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", rest)
	}
}
