package boundary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Language
		wantErr bool
	}{
		{"src/app.js", JavaScript, false},
		{"src/App.JSX", JavaScript, false},
		{"lib/index.mjs", JavaScript, false},
		{"lib/index.cjs", JavaScript, false},
		{"src/api.ts", TypeScript, false},
		{"src/api.mts", TypeScript, false},
		{"src/Button.tsx", TSX, false},
		{"README.md", "", true},
		{"Makefile", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := LanguageFor(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindTypeScript(t *testing.T) {
	src := `function add(a: number, b: number): number {
  return a + b;
}

const double = (x: number) => x * 2;

class Store {
  load(page = 1) {
    return [page].map(function (p) {
      return p;
    });
  }
}
`
	functions, err := Find(context.Background(), []byte(src), TypeScript)
	require.NoError(t, err)

	assert.Equal(t, []types.FunctionInfo{
		{Name: "add", Kind: types.KindDeclaration, Start: 1, End: 3},
		{Name: "double", Kind: types.KindArrow, Start: 5, End: 5},
		{Name: "load", Kind: types.KindMethod, Start: 8, End: 12},
		{Name: AnonymousName, Kind: types.KindExpression, Start: 9, End: 11},
	}, functions)
}

func TestFindJSX(t *testing.T) {
	src := `export default function App({ items }) {
  const onClick = () => {
    console.log(items);
  };
  return <List items={items} onClick={onClick} />;
}
`
	boundaries, functions, err := Map(context.Background(), []byte(src), JavaScript)
	require.NoError(t, err)
	require.Len(t, functions, 2)
	assert.Equal(t, "App", functions[0].Name)
	assert.Equal(t, "onClick", functions[1].Name)
	assert.Equal(t, types.BoundaryMap{
		1: {Start: 1, End: 6},
		2: {Start: 2, End: 4},
	}, boundaries)
}

func TestFindObjectProperties(t *testing.T) {
	src := `const handlers = {
  save: function () {},
  reset: () => {},
};
module.exports.run = async () => {};
`
	functions, err := Find(context.Background(), []byte(src), JavaScript)
	require.NoError(t, err)
	require.Len(t, functions, 3)
	assert.Equal(t, "save", functions[0].Name)
	assert.Equal(t, "reset", functions[1].Name)
	assert.Equal(t, "module.exports.run", functions[2].Name)
	assert.Equal(t, 5, functions[2].Start)
}

func TestMapFirstFunctionOnLineWins(t *testing.T) {
	src := `const f = () => () => 1;`
	boundaries, functions, err := Map(context.Background(), []byte(src), JavaScript)
	require.NoError(t, err)
	require.Len(t, functions, 2)
	assert.Equal(t, "f", functions[0].Name)
	assert.Equal(t, types.BoundaryMap{1: {Start: 1, End: 1}}, boundaries)
}

func TestFindEmptySource(t *testing.T) {
	functions, err := Find(context.Background(), []byte("\n"), TSX)
	require.NoError(t, err)
	assert.Empty(t, functions)
}
