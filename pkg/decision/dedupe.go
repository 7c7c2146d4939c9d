package decision

import "github.com/Pythonidaer/new-years-project-sub002/pkg/types"

// repeatableTypes may legitimately occur several times on one line for the
// same function: "a && b && c" holds two && points.
var repeatableTypes = map[string]bool{
	types.TypeAnd:              true,
	types.TypeOr:               true,
	types.TypeTernary:          true,
	types.TypeDefaultParameter: true,
}

type dedupeKey struct {
	line         int
	typ          string
	functionLine int
}

// Deduplicate keeps the first point per (line, type, functionLine) for all
// types except the repeatable ones, which pass through untouched. Order is
// preserved.
func Deduplicate(points []types.DecisionPoint) []types.DecisionPoint {
	seen := make(map[dedupeKey]bool, len(points))
	out := make([]types.DecisionPoint, 0, len(points))
	for _, p := range points {
		if !repeatableTypes[p.Type] {
			key := dedupeKey{line: p.Line, typ: p.Type, functionLine: p.FunctionLine}
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, p)
	}
	return out
}
