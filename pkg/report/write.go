package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

const (
	toolName    = "cxcheck"
	toolInfoURI = "https://github.com/Pythonidaer/new-years-project-sub002"

	// RuleID identifies mismatch results in SARIF output.
	RuleID = "complexity-mismatch"
)

// Encode writes report as indented JSON.
func Encode(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// WriteJSON writes report to path, creating parent directories.
func WriteJSON(path string, report Report) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, report) })
}

// SARIF converts report into a SARIF 2.1.0 log with one result per
// mismatch.
func SARIF(report Report) (*sarif.Report, error) {
	out, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInfoURI)
	rule := run.AddRule(RuleID).
		WithDescription("Heuristic cyclomatic complexity differs from the linter's value.").
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})

	for _, m := range report.Mismatches {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filepath.ToSlash(m.File))).
				WithRegion(sarif.NewRegion().WithStartLine(m.Line)),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(mismatchMessage(m))).
			WithLevel(levelFor(m.Difference)).
			WithLocations([]*sarif.Location{location})
		result.PropertyBag = *sarif.NewPropertyBag()
		result.Add("actualComplexity", m.ActualComplexity)
		result.Add("calculatedTotal", m.CalculatedTotal)
		result.Add("difference", m.Difference)
		run.AddResult(result)
	}

	out.AddRun(run)
	return out, nil
}

// WriteSARIF writes the SARIF form of report to w.
func WriteSARIF(w io.Writer, report Report) error {
	out, err := SARIF(report)
	if err != nil {
		return err
	}
	return out.PrettyWrite(w)
}

// WriteSARIFFile writes the SARIF form of report to path.
func WriteSARIFFile(path string, report Report) error {
	return writeFile(path, func(w io.Writer) error { return WriteSARIF(w, report) })
}

func mismatchMessage(m Mismatch) string {
	return fmt.Sprintf("Function '%s' has complexity %d per the linter but %d per the heuristic (difference %s).",
		m.FunctionName, m.ActualComplexity, m.CalculatedTotal, signed(m.Difference))
}

// levelFor grades a mismatch by how far off the heuristic is.
func levelFor(diff int) string {
	if abs(diff) >= 3 {
		return "warning"
	}
	return "note"
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// signed formats n with a leading + when positive.
func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
