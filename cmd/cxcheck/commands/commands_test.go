package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/linter"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/report"
)

const sampleSource = `function check(a, b) {
  if (a && b) {
    return 1;
  }
  return a ? 2 : 3;
}

const noop = () => 0;
`

// execute runs the CLI in an isolated home and working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "src", "check.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(sampleSource), 0o644))
	return dir, file
}

func TestExtractJSON(t *testing.T) {
	_, file := writeSample(t)

	out, err := execute(t, "extract", "--json", file)
	require.NoError(t, err)

	var decoded ExtractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, file, decoded.File)
	require.Len(t, decoded.Functions, 2)

	assert.Equal(t, "check", decoded.Functions[0].Name)
	assert.Equal(t, 4, decoded.Functions[0].CalculatedTotal)
	assert.Equal(t, "noop", decoded.Functions[1].Name)
	assert.Equal(t, 1, decoded.Functions[1].CalculatedTotal)
	assert.Len(t, decoded.DecisionPoints, 3)
}

func TestBoundariesText(t *testing.T) {
	_, file := writeSample(t)

	out, err := execute(t, "boundaries", "--json=false", file)
	require.NoError(t, err)
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "noop")
	assert.Contains(t, out, "1-6")
}

func TestExtractUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := execute(t, "extract", path)
	assert.Error(t, err)
}

func TestAnalyzeWithESLintJSON(t *testing.T) {
	dir, file := writeSample(t)
	eslintReport := []linter.FileResult{{
		FilePath: file,
		Messages: []linter.Message{
			{RuleID: "complexity", Line: 1, Message: "Function 'check' has a complexity of 4. Maximum allowed is 0."},
			{RuleID: "complexity", Line: 8, Message: "Arrow function has a complexity of 3. Maximum allowed is 0."},
		},
	}}
	data, err := json.Marshal(eslintReport)
	require.NoError(t, err)
	eslintPath := filepath.Join(t.TempDir(), "eslint.json")
	require.NoError(t, os.WriteFile(eslintPath, data, 0o644))

	out := t.TempDir()
	reportPath := filepath.Join(out, "report.json")
	sarifPath := filepath.Join(out, "report.sarif")

	_, err = execute(t, "analyze", dir,
		"--eslint-json", eslintPath,
		"--report", reportPath,
		"--sarif", sarifPath,
		"--no-cache",
		"--fail-on-mismatch",
	)
	require.ErrorIs(t, err, errMismatches)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, report.Summary{TotalProcessed: 2, TotalMismatches: 1, Accuracy: "50.00%"}, rep.Summary)
	require.Len(t, rep.Mismatches, 1)
	assert.Equal(t, "noop", rep.Mismatches[0].FunctionName)
	assert.Equal(t, -2, rep.Mismatches[0].Difference)

	_, err = os.Stat(sarifPath)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cxcheck version 1.2.3")
}

func TestAnalyzeRejectsNegativeTop(t *testing.T) {
	dir, _ := writeSample(t)
	t.Cleanup(func() {
		f := analyzeCmd.Flags().Lookup("top")
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	_, err := execute(t, "analyze", dir, "--top=-1", "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top must not be negative")
}
