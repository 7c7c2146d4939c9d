package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

func TestDeduplicate(t *testing.T) {
	p := types.NewDecisionPoint
	tests := []struct {
		name string
		in   []types.DecisionPoint
		want []types.DecisionPoint
	}{
		{
			name: "empty",
			in:   nil,
			want: []types.DecisionPoint{},
		},
		{
			name: "repeatable types pass through",
			in: []types.DecisionPoint{
				p(3, types.TypeAnd, 1), p(3, types.TypeAnd, 1),
				p(3, types.TypeOr, 1), p(3, types.TypeOr, 1),
				p(3, types.TypeTernary, 1), p(3, types.TypeTernary, 1),
				p(3, types.TypeDefaultParameter, 1), p(3, types.TypeDefaultParameter, 1),
			},
			want: []types.DecisionPoint{
				p(3, types.TypeAnd, 1), p(3, types.TypeAnd, 1),
				p(3, types.TypeOr, 1), p(3, types.TypeOr, 1),
				p(3, types.TypeTernary, 1), p(3, types.TypeTernary, 1),
				p(3, types.TypeDefaultParameter, 1), p(3, types.TypeDefaultParameter, 1),
			},
		},
		{
			name: "other types collapse per line and function",
			in: []types.DecisionPoint{
				p(2, types.TypeNullish, 1), p(2, types.TypeNullish, 1),
				p(2, types.TypeOptionalChain, 1), p(2, types.TypeOptionalChain, 1),
				p(2, types.TypeIf, 1), p(2, types.TypeIf, 1),
			},
			want: []types.DecisionPoint{
				p(2, types.TypeNullish, 1),
				p(2, types.TypeOptionalChain, 1),
				p(2, types.TypeIf, 1),
			},
		},
		{
			name: "different functions are kept apart",
			in: []types.DecisionPoint{
				p(2, types.TypeIf, 1), p(2, types.TypeIf, 2),
				p(2, types.TypeNullish, 1), p(4, types.TypeNullish, 1),
			},
			want: []types.DecisionPoint{
				p(2, types.TypeIf, 1), p(2, types.TypeIf, 2),
				p(2, types.TypeNullish, 1), p(4, types.TypeNullish, 1),
			},
		},
		{
			name: "first occurrence wins and order holds",
			in: []types.DecisionPoint{
				p(5, types.TypeCase, 1), p(5, types.TypeAnd, 1), p(5, types.TypeCase, 1), p(6, types.TypeCase, 1),
			},
			want: []types.DecisionPoint{
				p(5, types.TypeCase, 1), p(5, types.TypeAnd, 1), p(6, types.TypeCase, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deduplicate(tt.in))
		})
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	p := types.NewDecisionPoint
	in := []types.DecisionPoint{
		p(1, types.TypeIf, 1), p(1, types.TypeIf, 1), p(1, types.TypeAnd, 1), p(1, types.TypeAnd, 1),
	}
	once := Deduplicate(in)
	assert.Equal(t, once, Deduplicate(once))
}
