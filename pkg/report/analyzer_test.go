package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pythonidaer/new-years-project-sub002/internal/scanner"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/cache"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/linter"
)

const analyzerSource = `function check(a, b) {
  if (a && b) {
    return 1;
  }
  return a ? 2 : 3;
}

const noop = () => 0;
`

type fakeRunner struct {
	results []linter.FileResult
	err     error
	files   []string
}

func (f *fakeRunner) Run(_ context.Context, files []string) ([]linter.FileResult, error) {
	f.files = append(f.files, files...)
	return f.results, f.err
}

func complexityMessage(line int, text string) linter.Message {
	return linter.Message{RuleID: linter.ComplexityRule, Severity: 1, Line: line, Message: text}
}

func writeSource(t *testing.T) scanner.FileInfo {
	t.Helper()
	dir := t.TempDir()
	full := filepath.Join(dir, "check.js")
	require.NoError(t, os.WriteFile(full, []byte(analyzerSource), 0o644))
	return scanner.FileInfo{Path: "check.js", FullPath: full, Language: boundary.JavaScript}
}

func newTestAnalyzer(runner linter.Runner) *Analyzer {
	a := NewAnalyzer(runner, nil)
	a.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	a.runID = func() string { return "run-1" }
	return a
}

func TestAnalyzerRun(t *testing.T) {
	file := writeSource(t)
	runner := &fakeRunner{results: []linter.FileResult{{
		FilePath: file.FullPath,
		Messages: []linter.Message{
			complexityMessage(1, "Function 'check' has a complexity of 4. Maximum allowed is 0."),
			complexityMessage(8, "Arrow function has a complexity of 2. Maximum allowed is 0."),
			complexityMessage(30, "Function 'ghost' has a complexity of 3. Maximum allowed is 0."),
			{RuleID: "no-unused-vars", Line: 1, Message: "'b' is defined but never used."},
		},
	}}}

	report, err := newTestAnalyzer(runner).Run(context.Background(), []scanner.FileInfo{file})
	require.NoError(t, err)

	assert.Equal(t, []string{file.FullPath}, runner.files)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), report.GeneratedAt)
	assert.Equal(t, 1, report.Files)
	assert.Empty(t, report.FileErrors)

	assert.Equal(t, Summary{TotalProcessed: 3, TotalMismatches: 2, Accuracy: "33.33%"}, report.Summary)
	require.Len(t, report.Mismatches, 2)

	ghost := report.Mismatches[0]
	assert.Equal(t, "ghost", ghost.FunctionName)
	assert.Equal(t, 1, ghost.CalculatedTotal)
	assert.Equal(t, -2, ghost.Difference)
	assert.Nil(t, ghost.Boundary)

	noop := report.Mismatches[1]
	assert.Equal(t, "noop", noop.FunctionName)
	assert.Equal(t, "check.js", noop.File)
	assert.Equal(t, 8, noop.Line)
	assert.Equal(t, 1, noop.CalculatedTotal)
	assert.Equal(t, -1, noop.Difference)
	require.NotNil(t, noop.Boundary)
	assert.Equal(t, 8, noop.Boundary.Start)
	assert.Nil(t, noop.ASTCrossCheck)
}

func TestAnalyzerCrossCheck(t *testing.T) {
	file := writeSource(t)
	runner := &fakeRunner{results: []linter.FileResult{{
		FilePath: file.FullPath,
		Messages: []linter.Message{
			complexityMessage(1, "Function 'check' has a complexity of 5. Maximum allowed is 0."),
		},
	}}}

	a := newTestAnalyzer(runner)
	a.CrossCheck = true
	report, err := a.Run(context.Background(), []scanner.FileInfo{file})
	require.NoError(t, err)

	require.Len(t, report.Mismatches, 1)
	m := report.Mismatches[0]
	assert.Equal(t, 4, m.CalculatedTotal)
	assert.Equal(t, 3, m.DecisionPointsFound)
	require.NotNil(t, m.ASTCrossCheck)
	assert.Equal(t, 4, m.ASTCrossCheck.CalculatedTotal)
}

func TestAnalyzerSkipsUnreadableFiles(t *testing.T) {
	file := writeSource(t)
	missing := scanner.FileInfo{
		Path:     "gone.js",
		FullPath: filepath.Join(t.TempDir(), "gone.js"),
		Language: boundary.JavaScript,
	}
	runner := &fakeRunner{results: []linter.FileResult{{
		FilePath: file.FullPath,
		Messages: []linter.Message{
			complexityMessage(1, "Function 'check' has a complexity of 4. Maximum allowed is 0."),
		},
	}}}

	a := newTestAnalyzer(runner)
	a.Workers = 4
	report, err := a.Run(context.Background(), []scanner.FileInfo{missing, file})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Files)
	require.Len(t, report.FileErrors, 1)
	assert.Equal(t, "gone.js", report.FileErrors[0].File)
	assert.Equal(t, Summary{TotalProcessed: 1, TotalMismatches: 0, Accuracy: "100.00%"}, report.Summary)
}

func TestAnalyzerLinterFailure(t *testing.T) {
	runner := &fakeRunner{err: linter.ErrLinterNotFound}
	_, err := newTestAnalyzer(runner).Run(context.Background(), []scanner.FileInfo{writeSource(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, linter.ErrLinterNotFound))
}

func TestAnalyzerUsesCache(t *testing.T) {
	file := writeSource(t)
	runner := &fakeRunner{results: []linter.FileResult{{
		FilePath: file.FullPath,
		Messages: []linter.Message{
			complexityMessage(1, "Function 'check' has a complexity of 4. Maximum allowed is 0."),
		},
	}}}

	a := newTestAnalyzer(runner)
	a.Cache = cache.NewBoundaryCache(8, "")
	for i := 0; i < 2; i++ {
		report, err := a.Run(context.Background(), []scanner.FileInfo{file})
		require.NoError(t, err)
		assert.Equal(t, 0, report.Summary.TotalMismatches)
	}

	stats := a.Cache.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "linted", functionName("linted", "parsed"))
	assert.Equal(t, "parsed", functionName("", "parsed"))
	assert.Equal(t, boundary.AnonymousName, functionName("", ""))
}
