package decision

import (
	"sort"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// boundaryEntry pairs a function line with its boundary.
type boundaryEntry struct {
	FunctionLine int
	Boundary     types.Boundary
}

// AttributionContext answers "which function owns this line" questions for
// one source file. It is built once per file and is read-only afterwards.
type AttributionContext struct {
	boundaries types.BoundaryMap
	index      map[int][]boundaryEntry
}

// NewAttributionContext builds the line-to-functions index for boundaries.
func NewAttributionContext(boundaries types.BoundaryMap) AttributionContext {
	index := make(map[int][]boundaryEntry)
	for _, fnLine := range boundaries.Lines() {
		b := boundaries[fnLine]
		for line := b.Start; line <= b.End; line++ {
			index[line] = append(index[line], boundaryEntry{FunctionLine: fnLine, Boundary: b})
		}
	}
	return AttributionContext{boundaries: boundaries, index: index}
}

// Candidates returns the boundaries containing line.
func (a AttributionContext) Candidates(line int) []boundaryEntry {
	return a.index[line]
}

// InnermostFunction returns the function that owns line, or false when no
// boundary contains it.
func (a AttributionContext) InnermostFunction(line int) (int, bool) {
	return resolveAt(line, a.index[line])
}

// FunctionLineForControlStructure attributes a control-flow keyword (if,
// for, while, switch) on line. A callback that merely starts on the same
// line never claims the keyword; the nearest enclosing function does.
func (a AttributionContext) FunctionLineForControlStructure(line int) (int, bool) {
	return resolveAt(line, withoutCallbacksStartingOn(line, a.index[line]))
}

// ContinuationFunction attributes a line that continues a construct opened
// on openLine. Resolution uses the candidates of the opening line, so a
// callback that opened and closed in between hands attribution back to its
// container.
func (a AttributionContext) ContinuationFunction(openLine, line int) (int, bool) {
	if openLine == line {
		return a.FunctionLineForControlStructure(line)
	}
	return resolveAt(line, withoutCallbacksStartingOn(openLine, a.index[openLine]))
}

// CallbacksStartingOn returns the function lines of boundaries that start on
// line and are nested inside another boundary containing it, smallest first.
func (a AttributionContext) CallbacksStartingOn(line int) []int {
	candidates := a.index[line]
	var nested []boundaryEntry
	for _, c := range candidates {
		if c.Boundary.Start == line && hasContainer(c, candidates) {
			nested = append(nested, c)
		}
	}
	sortInnermostFirst(nested)
	lines := make([]int, len(nested))
	for i, c := range nested {
		lines[i] = c.FunctionLine
	}
	return lines
}

// FunctionsStartingOn returns the function lines of every boundary starting
// on line, largest range first.
func (a AttributionContext) FunctionsStartingOn(line int) []int {
	var starting []boundaryEntry
	for _, c := range a.index[line] {
		if c.Boundary.Start == line {
			starting = append(starting, c)
		}
	}
	sortInnermostFirst(starting)
	lines := make([]int, len(starting))
	for i := range starting {
		lines[len(starting)-1-i] = starting[i].FunctionLine
	}
	return lines
}

// BoundaryOf returns the boundary registered for fnLine.
func (a AttributionContext) BoundaryOf(fnLine int) (types.Boundary, bool) {
	b, ok := a.boundaries[fnLine]
	return b, ok
}

// resolveAt picks the owner of line among candidates. Precedence:
//  1. no candidate: nothing owns the line
//  2. exactly one candidate: it owns the line
//  3. a candidate already ended before line: the largest remaining range
//  4. single-line boundaries starting on line: the smallest of them
//  5. otherwise the smallest range
func resolveAt(line int, candidates []boundaryEntry) (int, bool) {
	switch len(candidates) {
	case 0:
		return 0, false
	case 1:
		return candidates[0].FunctionLine, true
	}

	live := make([]boundaryEntry, 0, len(candidates))
	for _, c := range candidates {
		if c.Boundary.End >= line {
			live = append(live, c)
		}
	}
	if len(live) < len(candidates) {
		if len(live) == 0 {
			live = candidates
		}
		return outermost(live).FunctionLine, true
	}

	var inline []boundaryEntry
	for _, c := range candidates {
		if c.Boundary.Start == line && c.Boundary.End == line {
			inline = append(inline, c)
		}
	}
	if len(inline) > 0 {
		return innermost(inline).FunctionLine, true
	}

	return innermost(candidates).FunctionLine, true
}

// withoutCallbacksStartingOn drops boundaries that start on line while
// nested in another candidate. If that would leave nothing, the input is
// returned unchanged.
func withoutCallbacksStartingOn(line int, candidates []boundaryEntry) []boundaryEntry {
	kept := make([]boundaryEntry, 0, len(candidates))
	for _, c := range candidates {
		if c.Boundary.Start == line && hasContainer(c, candidates) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

// hasContainer reports whether another candidate's range encloses c.
func hasContainer(c boundaryEntry, candidates []boundaryEntry) bool {
	for _, other := range candidates {
		if other.FunctionLine == c.FunctionLine {
			continue
		}
		if other.Boundary.Start <= c.Boundary.Start && other.Boundary.End >= c.Boundary.End &&
			other.Boundary.Size() >= c.Boundary.Size() {
			return true
		}
	}
	return false
}

// innermost returns the smallest range. Ties go to the largest start line,
// then to the smallest function line.
func innermost(entries []boundaryEntry) boundaryEntry {
	sorted := append([]boundaryEntry(nil), entries...)
	sortInnermostFirst(sorted)
	return sorted[0]
}

// outermost returns the largest range. Ties go to the smallest start line.
func outermost(entries []boundaryEntry) boundaryEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Boundary.Size() > best.Boundary.Size() ||
			(e.Boundary.Size() == best.Boundary.Size() && e.Boundary.Start < best.Boundary.Start) {
			best = e
		}
	}
	return best
}

func sortInnermostFirst(entries []boundaryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Boundary, entries[j].Boundary
		if a.Size() != b.Size() {
			return a.Size() < b.Size()
		}
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return entries[i].FunctionLine < entries[j].FunctionLine
	})
}
