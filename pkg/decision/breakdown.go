package decision

import (
	"sort"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// FunctionBreakdown summarises the decision points owned by one function.
type FunctionBreakdown struct {
	FunctionLine   int                   `json:"functionLine"`
	Boundary       types.Boundary        `json:"boundary"`
	Counts         map[string]int        `json:"counts"`
	DecisionPoints []types.DecisionPoint `json:"decisionPoints"`
	Total          int                   `json:"calculatedTotal"`
}

// countsTowardTotal reports whether a point type adds to the complexity
// total. The switch statement itself does not; its cases do.
func countsTowardTotal(typ string) bool {
	return typ != types.TypeSwitch
}

// CalculatedTotal returns 1 plus the number of counted points.
func CalculatedTotal(points []types.DecisionPoint) int {
	total := 1
	for _, p := range points {
		if countsTowardTotal(p.Type) {
			total++
		}
	}
	return total
}

// Breakdown groups points by owning function. Every boundary gets an entry,
// including functions with no decision points (total 1).
func Breakdown(points []types.DecisionPoint, boundaries types.BoundaryMap) map[int]FunctionBreakdown {
	byFunction := make(map[int][]types.DecisionPoint, len(boundaries))
	for _, p := range points {
		byFunction[p.FunctionLine] = append(byFunction[p.FunctionLine], p)
	}

	out := make(map[int]FunctionBreakdown, len(boundaries))
	for fnLine, b := range boundaries {
		fnPoints := byFunction[fnLine]
		counts := make(map[string]int)
		for _, p := range fnPoints {
			counts[p.Type]++
		}
		sort.SliceStable(fnPoints, func(i, j int) bool { return fnPoints[i].Line < fnPoints[j].Line })
		out[fnLine] = FunctionBreakdown{
			FunctionLine:   fnLine,
			Boundary:       b,
			Counts:         counts,
			DecisionPoints: fnPoints,
			Total:          CalculatedTotal(fnPoints),
		}
	}
	return out
}
