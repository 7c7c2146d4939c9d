// Package types defines the shared data structures passed between the
// decision-point extractor, the boundary provider and the reporting layer.
package types

import "sort"

// Decision point type tags.
const (
	TypeIf               = "if"
	TypeElseIf           = "else if"
	TypeFor              = "for"
	TypeForOf            = "for...of"
	TypeForIn            = "for...in"
	TypeWhile            = "while"
	TypeDoWhile          = "do...while"
	TypeSwitch           = "switch"
	TypeCase             = "case"
	TypeCatch            = "catch"
	TypeTernary          = "ternary"
	TypeNullish          = "??"
	TypeOptionalChain    = "?."
	TypeAnd              = "&&"
	TypeOr               = "||"
	TypeDefaultParameter = "default parameter"
)

// typeNames maps a type tag to its human-readable label.
var typeNames = map[string]string{
	TypeIf:               "if statement",
	TypeElseIf:           "else if statement",
	TypeFor:              "for loop",
	TypeForOf:            "for...of loop",
	TypeForIn:            "for...in loop",
	TypeWhile:            "while loop",
	TypeDoWhile:          "do...while loop",
	TypeSwitch:           "switch statement",
	TypeCase:             "case clause",
	TypeCatch:            "catch clause",
	TypeTernary:          "ternary operator",
	TypeNullish:          "nullish coalescing",
	TypeOptionalChain:    "optional chaining",
	TypeAnd:              "logical AND",
	TypeOr:               "logical OR",
	TypeDefaultParameter: "default parameter",
}

// TypeName returns the label for a decision point type, or the tag itself
// when the type is unknown.
func TypeName(typ string) string {
	if name, ok := typeNames[typ]; ok {
		return name
	}
	return typ
}

// DecisionPoint is a single construct counted toward cyclomatic complexity.
type DecisionPoint struct {
	Line         int    `json:"line" msgpack:"line"`                 // 1-based line of the triggering token
	Type         string `json:"type" msgpack:"type"`                 // Construct tag (if, &&, ternary, ...)
	Name         string `json:"name" msgpack:"name"`                 // Human-readable label
	FunctionLine int    `json:"functionLine" msgpack:"functionLine"` // Key of the owning function boundary
}

// NewDecisionPoint builds a point with its label filled in.
func NewDecisionPoint(line int, typ string, functionLine int) DecisionPoint {
	return DecisionPoint{
		Line:         line,
		Type:         typ,
		Name:         TypeName(typ),
		FunctionLine: functionLine,
	}
}

// Boundary is an inclusive 1-based line range belonging to one function.
type Boundary struct {
	Start int `json:"start" msgpack:"start"`
	End   int `json:"end" msgpack:"end"`
}

// Contains reports whether line falls inside the boundary.
func (b Boundary) Contains(line int) bool {
	return line >= b.Start && line <= b.End
}

// Size returns the number of lines covered by the boundary.
func (b Boundary) Size() int {
	return b.End - b.Start
}

// BoundaryMap maps a function line to its boundary.
type BoundaryMap map[int]Boundary

// Lines returns the function lines in ascending order.
func (m BoundaryMap) Lines() []int {
	lines := make([]int, 0, len(m))
	for line := range m {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// FunctionKind describes the syntactic form of a function.
type FunctionKind string

const (
	KindDeclaration FunctionKind = "function"
	KindExpression  FunctionKind = "function_expression"
	KindArrow       FunctionKind = "arrow"
	KindMethod      FunctionKind = "method"
	KindGenerator   FunctionKind = "generator"
)

// FunctionInfo describes one function found in a source file.
type FunctionInfo struct {
	Name  string       `json:"name" msgpack:"name"`
	Kind  FunctionKind `json:"kind" msgpack:"kind"`
	Start int          `json:"start" msgpack:"start"`
	End   int          `json:"end" msgpack:"end"`
}

// Boundary returns the function's line range.
func (f FunctionInfo) Boundary() Boundary {
	return Boundary{Start: f.Start, End: f.End}
}

// BoundariesOf builds a boundary map keyed by each function's start line.
// When two functions start on the same line the first one listed wins.
func BoundariesOf(functions []FunctionInfo) BoundaryMap {
	m := make(BoundaryMap, len(functions))
	for _, fn := range functions {
		if _, exists := m[fn.Start]; exists {
			continue
		}
		m[fn.Start] = fn.Boundary()
	}
	return m
}
