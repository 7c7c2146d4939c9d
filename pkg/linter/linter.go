// Package linter obtains reference complexity numbers from ESLint's
// complexity rule, either by running ESLint or by reading its JSON output.
package linter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ComplexityRule is the ESLint rule whose messages carry the numbers.
const ComplexityRule = "complexity"

var (
	// ErrLinterNotFound is returned when the ESLint command cannot be found
	// on PATH.
	ErrLinterNotFound = errors.New("eslint executable not found")
	// ErrDecodeFailure is returned when linter output is not ESLint JSON.
	ErrDecodeFailure = errors.New("failed to decode eslint json output")
)

var (
	complexityRe  = regexp.MustCompile(`complexity of (\d+)`)
	trailingIntRe = regexp.MustCompile(`(\d+)\D*$`)
	quotedNameRe  = regexp.MustCompile(`'([^']*)'`)
)

// Message is one ESLint problem report.
type Message struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	NodeType string `json:"nodeType,omitempty"`
}

// FileResult is ESLint's per-file JSON record.
type FileResult struct {
	FilePath string    `json:"filePath"`
	Messages []Message `json:"messages"`
}

// Complexity is one function's complexity as reported by the linter.
type Complexity struct {
	File  string
	Line  int
	Name  string
	Value int
}

// Decode reads an ESLint JSON report.
func Decode(r io.Reader) ([]FileResult, error) {
	var results []FileResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return results, nil
}

// ParseComplexity extracts N from "Function 'f' has a complexity of N."
// Messages without that phrase fall back to their last integer.
func ParseComplexity(message string) (int, bool) {
	m := complexityRe.FindStringSubmatch(message)
	if m == nil {
		m = trailingIntRe.FindStringSubmatch(message)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FunctionName extracts the quoted function name from a complexity
// message. Anonymous functions ("Arrow function has ...") yield "".
func FunctionName(message string) string {
	if m := quotedNameRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

// Complexities lists every complexity message in results, in report order.
// Messages from other rules and messages without a number are skipped.
func Complexities(results []FileResult) []Complexity {
	var out []Complexity
	for _, fr := range results {
		for _, msg := range fr.Messages {
			if msg.RuleID != ComplexityRule {
				continue
			}
			n, ok := ParseComplexity(msg.Message)
			if !ok {
				continue
			}
			out = append(out, Complexity{
				File:  fr.FilePath,
				Line:  msg.Line,
				Name:  strings.TrimSpace(FunctionName(msg.Message)),
				Value: n,
			})
		}
	}
	return out
}
