package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

func TestCalculatedTotal(t *testing.T) {
	p := types.NewDecisionPoint
	tests := []struct {
		name   string
		points []types.DecisionPoint
		want   int
	}{
		{"no points", nil, 1},
		{"if and and", []types.DecisionPoint{p(1, types.TypeIf, 1), p(1, types.TypeAnd, 1)}, 3},
		{
			"switch is not counted",
			[]types.DecisionPoint{p(2, types.TypeSwitch, 1), p(3, types.TypeCase, 1), p(4, types.TypeCase, 1)},
			3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatedTotal(tt.points))
		})
	}
}

func TestBreakdown(t *testing.T) {
	src := `function a(x) {
  if (x && x.ok) {
    return x.v ?? 0;
  }
}
function b() {
  return 1;
}`
	boundaries := types.BoundaryMap{1: {Start: 1, End: 5}, 6: {Start: 6, End: 8}}
	points := Extract(src, boundaries)

	got := Breakdown(points, boundaries)
	require.Len(t, got, 2)

	first := got[1]
	assert.Equal(t, types.Boundary{Start: 1, End: 5}, first.Boundary)
	assert.Equal(t, map[string]int{types.TypeIf: 1, types.TypeAnd: 1, types.TypeNullish: 1}, first.Counts)
	assert.Equal(t, 4, first.Total)
	assert.Len(t, first.DecisionPoints, 3)

	second := got[6]
	assert.Equal(t, 1, second.Total)
	assert.Empty(t, second.DecisionPoints)
	assert.Empty(t, second.Counts)
}

func TestBreakdownDropsUnknownFunctions(t *testing.T) {
	points := []types.DecisionPoint{types.NewDecisionPoint(3, types.TypeIf, 99)}
	got := Breakdown(points, types.BoundaryMap{1: {Start: 1, End: 5}})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[1].Total)
}
