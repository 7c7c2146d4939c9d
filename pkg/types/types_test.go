package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeName(t *testing.T) {
	assert.Equal(t, "if statement", TypeName(TypeIf))
	assert.Equal(t, "default parameter", TypeName(TypeDefaultParameter))
	assert.Equal(t, "mystery", TypeName("mystery"))
}

func TestNewDecisionPoint(t *testing.T) {
	p := NewDecisionPoint(3, TypeNullish, 1)
	assert.Equal(t, DecisionPoint{Line: 3, Type: "??", Name: "nullish coalescing", FunctionLine: 1}, p)
}

func TestBoundary(t *testing.T) {
	b := Boundary{Start: 4, End: 9}
	assert.True(t, b.Contains(4))
	assert.True(t, b.Contains(9))
	assert.False(t, b.Contains(10))
	assert.Equal(t, 5, b.Size())
}

func TestBoundariesOf(t *testing.T) {
	functions := []FunctionInfo{
		{Name: "outer", Start: 10, End: 20},
		{Name: "inline", Start: 10, End: 10},
		{Name: "first", Start: 1, End: 5},
	}
	m := BoundariesOf(functions)

	assert.Equal(t, BoundaryMap{
		1:  {Start: 1, End: 5},
		10: {Start: 10, End: 20},
	}, m)
	assert.Equal(t, []int{1, 10}, m.Lines())
}
