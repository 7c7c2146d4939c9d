package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return BuildReport([]Comparison{
		{FunctionName: "big", File: "src/a.js", Line: 3, ActualComplexity: 10, CalculatedTotal: 6},
		{FunctionName: "small", File: "src/b.ts", Line: 7, ActualComplexity: 2, CalculatedTotal: 3},
		{FunctionName: "ok", File: "src/b.ts", Line: 20, ActualComplexity: 2, CalculatedTotal: 2},
	})
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Summary.TotalMismatches)
	assert.Equal(t, "big", decoded.Mismatches[0].FunctionName)
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, sampleReport()))

	var decoded struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				Properties map[string]interface{} `json:"properties"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "2.1.0", decoded.Version)
	require.Len(t, decoded.Runs, 1)
	run := decoded.Runs[0]
	assert.Equal(t, "cxcheck", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, RuleID, run.Tool.Driver.Rules[0].ID)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, RuleID, first.RuleID)
	assert.Equal(t, "warning", first.Level)
	assert.Equal(t, "src/a.js", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, first.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Contains(t, first.Message.Text, "difference -4")
	assert.Equal(t, float64(-4), first.Properties["difference"])

	assert.Equal(t, "note", run.Results[1].Level)
	assert.Contains(t, run.Results[1].Message.Text, "difference +1")
}

func TestWriteSARIFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, WriteSARIFFile(path, sampleReport()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"complexity-mismatch"`))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport(), 20, false)
	out := buf.String()

	assert.Contains(t, out, "Functions processed: 3")
	assert.Contains(t, out, "Mismatches:          2")
	assert.Contains(t, out, "Accuracy:            33.33%")
	assert.Contains(t, out, "Top 2 mismatches:")
	assert.Contains(t, out, "  -4  src/a.js:3  big (actual 10, calculated 6)")
	assert.Contains(t, out, "  +1  src/b.ts:7  small (actual 2, calculated 3)")
	assert.NotContains(t, out, "\033[")
}

func TestPrintSummaryTopN(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport(), 1, true)
	out := buf.String()

	assert.Contains(t, out, "Top 1 mismatches:")
	assert.Contains(t, out, "... and 1 more")
	assert.NotContains(t, out, "small")
	assert.Contains(t, out, colorGreen+"-4"+colorReset)

	buf.Reset()
	PrintSummary(&buf, sampleReport(), 0, false)
	assert.NotContains(t, buf.String(), "Top")

	buf.Reset()
	assert.NotPanics(t, func() { PrintSummary(&buf, sampleReport(), -1, false) })
	assert.NotContains(t, buf.String(), "Top")
}
