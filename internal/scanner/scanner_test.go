package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/index.js":              "export {}",
		"src/App.tsx":               "export {}",
		"src/api.ts":                "export {}",
		"src/types.d.ts":            "declare const x: number;",
		"src/styles.css":            "a {}",
		"public/vendor.min.js":      "!function(){}()",
		"lib/util.mjs":              "export {}",
		"README.md":                 "# x",
		"node_modules/pkg/index.js": "module.exports = {}",
		"dist/bundle.js":            "x",
		".storybook/main.js":        "x",
	})

	files, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.mjs", "src/App.tsx", "src/api.ts", "src/index.js"}, paths(files))

	byPath := make(map[string]FileInfo)
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, boundary.TSX, byPath["src/App.tsx"].Language)
	assert.Equal(t, boundary.TypeScript, byPath["src/api.ts"].Language)
	assert.Equal(t, boundary.JavaScript, byPath["src/index.js"].Language)
	assert.Equal(t, filepath.Join(root, "src", "index.js"), byPath["src/index.js"].FullPath)
	assert.Equal(t, int64(len("export {}")), byPath["src/index.js"].Size)
}

func TestScanWithIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".cxcheckignore":          "# generated code\ngenerated/\n*.test.js\n!keep.test.js\n/scripts/\n",
		"src/a.js":                "",
		"src/a.test.js":           "",
		"src/keep.test.js":        "",
		"generated/api.ts":        "",
		"src/generated/client.ts": "",
		"scripts/build.js":        "",
		"src/scripts/run.js":      "",
	})

	files, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/keep.test.js", "src/scripts/run.js"}, paths(files))
}

func TestScanNestedIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/.cxcheckignore":  "fixtures/\n",
		"pkg/src/a.ts":        "",
		"pkg/fixtures/b.ts":   "",
		"other/fixtures/c.ts": "",
	})

	files, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"other/fixtures/c.ts", "pkg/src/a.ts"}, paths(files))
}

func TestScanOptions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.js":          "",
		"b.ts":          "",
		"stories/c.js":  "",
		"legacy/old.js": "",
	})

	opts := DefaultOptions()
	opts.Extensions = []string{".js"}
	opts.Exclude = []string{"legacy/", "stories/**"}
	files, err := New(opts).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, paths(files))
}

func TestRelevant(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	opts.Extensions = []string{".js"}
	opts.Exclude = []string{"legacy/", "stories/**"}
	s := New(opts)

	tests := []struct {
		path string
		want bool
	}{
		{"a.js", true},
		{"src/deep/b.js", true},
		{"b.ts", false},
		{"legacy/old.js", false},
		{"stories/c.js", false},
		{"node_modules/pkg/index.js", false},
		{".hidden/x.js", false},
		{"types.d.ts", false},
		{".cxcheckignore", true},
		{"src/.cxcheckignore", true},
		{"../outside.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Relevant(root, filepath.Join(root, tt.path)))
		})
	}
	assert.Equal(t, opts.Exclude, s.Options().Exclude)
}

func TestScanMissingRoot(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestIgnorePatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.test.js", "src/a.test.js", false, true},
		{"*.test.js", "src/a.js", false, false},
		{"build/", "build", true, true},
		{"build/", "pkg/build/x.js", false, true},
		{"build/", "build", false, false},
		{"/build", "pkg/build", true, false},
		{"/build", "build/x.js", false, true},
		{"src/gen", "src/gen/a.ts", false, true},
		{"src/gen", "lib/src/gen/a.ts", false, false},
		{"**/fixtures", "a/b/fixtures/c.ts", false, true},
		{"src/**/*.spec.ts", "src/a/b/x.spec.ts", false, true},
		{"src/**/*.spec.ts", "lib/x.spec.ts", false, false},
		{"file?.js", "file1.js", false, true},
		{"[ab].js", "c.js", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIgnorePattern(tt.pattern).Match(tt.path, tt.isDir))
		})
	}
}

func TestIgnoredNegation(t *testing.T) {
	patterns := []IgnorePattern{ParseIgnorePattern("*.js"), ParseIgnorePattern("!main.js")}
	assert.True(t, ignored("util.js", false, patterns))
	assert.False(t, ignored("main.js", false, patterns))
	assert.True(t, patterns[1].IsNegation())
	assert.Equal(t, "!main.js", patterns[1].String())
}

func TestRebase(t *testing.T) {
	assert.Equal(t, "/pkg/**/fixtures/", rebase("fixtures/", "pkg"))
	assert.Equal(t, "!/pkg/**/keep.js", rebase("!keep.js", "pkg"))
	assert.Equal(t, "/pkg/src/gen", rebase("/src/gen", "pkg"))
}
