// Package boundary locates JavaScript and TypeScript functions with
// tree-sitter and reports the line range each one spans.
package boundary

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// Language selects the tree-sitter grammar used for a file.
type Language string

const (
	// JavaScript covers .js, .jsx, .mjs and .cjs, JSX included.
	JavaScript Language = "javascript"
	// TypeScript covers .ts, .mts and .cts.
	TypeScript Language = "typescript"
	// TSX covers .tsx.
	TSX Language = "tsx"
)

var extensions = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
}

// AnonymousName is reported for functions with no name of their own and
// none inherited from a binding.
const AnonymousName = "<anonymous>"

// LanguageFor returns the grammar for a file path based on its extension.
func LanguageFor(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("file has no extension: %s", path)
	}
	lang, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
	return lang, nil
}

// Extensions lists every supported file extension.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	return out
}

// NewParser creates a tree-sitter parser for lang. Parsers are not safe
// for concurrent use.
func NewParser(lang Language) *sitter.Parser {
	parser := sitter.NewParser()
	switch lang {
	case TypeScript:
		parser.SetLanguage(typescript.GetLanguage())
	case TSX:
		parser.SetLanguage(tsx.GetLanguage())
	default:
		parser.SetLanguage(javascript.GetLanguage())
	}
	return parser
}

// Parse parses source with the grammar for lang. The caller must Close the
// returned tree.
func Parse(ctx context.Context, source []byte, lang Language) (*sitter.Tree, error) {
	parser := NewParser(lang)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", lang, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parsing %s source failed", lang)
	}
	return tree, nil
}

// functionKinds maps function node types to their kind.
var functionKinds = map[string]types.FunctionKind{
	"function_declaration":           types.KindDeclaration,
	"generator_function_declaration": types.KindGenerator,
	"function":                       types.KindExpression,
	"function_expression":            types.KindExpression,
	"generator_function":             types.KindGenerator,
	"arrow_function":                 types.KindArrow,
	"method_definition":              types.KindMethod,
}

// IsFunctionNode reports whether a node of type typ starts a function.
func IsFunctionNode(typ string) bool {
	_, ok := functionKinds[typ]
	return ok
}

// Find returns every function in source in pre-order, so an enclosing
// function is listed before the functions nested in it. Lines are 1-based.
func Find(ctx context.Context, source []byte, lang Language) ([]types.FunctionInfo, error) {
	tree, err := Parse(ctx, source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var functions []types.FunctionInfo
	Walk(tree.RootNode(), func(node *sitter.Node) {
		functions = append(functions, types.FunctionInfo{
			Name:  FunctionName(node, source),
			Kind:  functionKinds[node.Type()],
			Start: int(node.StartPoint().Row) + 1,
			End:   int(node.EndPoint().Row) + 1,
		})
	})
	return functions, nil
}

// Map is Find reduced to a boundary map.
func Map(ctx context.Context, source []byte, lang Language) (types.BoundaryMap, []types.FunctionInfo, error) {
	functions, err := Find(ctx, source, lang)
	if err != nil {
		return nil, nil, err
	}
	return types.BoundariesOf(functions), functions, nil
}

// Walk calls visit for every function node under root, outer functions
// first.
func Walk(root *sitter.Node, visit func(*sitter.Node)) {
	if root == nil {
		return
	}
	if IsFunctionNode(root.Type()) {
		visit(root)
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		Walk(root.NamedChild(i), visit)
	}
}

// FunctionName returns the declared name of a function node, or the name
// it is bound to by a variable, property, field or assignment.
func FunctionName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}

	parent := node.Parent()
	if parent == nil {
		return AnonymousName
	}
	switch parent.Type() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil {
			return nodeText(name, source)
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil {
			return strings.Trim(nodeText(key, source), `"'`)
		}
	case "public_field_definition", "field_definition":
		if name := parent.ChildByFieldName("name"); name != nil {
			return nodeText(name, source)
		}
		if prop := parent.ChildByFieldName("property"); prop != nil {
			return nodeText(prop, source)
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil {
			return nodeText(left, source)
		}
	}
	return AnonymousName
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= uint32(len(content)) || end > uint32(len(content)) {
		return ""
	}
	return string(content[start:end])
}
