// Package astcheck counts decision points from a real syntax tree. Its
// totals are a second opinion next to the line heuristic in pkg/decision.
package astcheck

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// Result is the cross-check for one function.
type Result struct {
	CalculatedTotal int                   `json:"calculatedTotal"`
	DecisionPoints  []types.DecisionPoint `json:"decisionPoints"`
}

// Check parses source and returns a Result per function, keyed by the
// function's start line. When several functions start on one line the
// outermost is kept.
func Check(ctx context.Context, source []byte, lang boundary.Language) (map[int]Result, error) {
	tree, err := boundary.Parse(ctx, source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	results := make(map[int]Result)
	boundary.Walk(tree.RootNode(), func(fn *sitter.Node) {
		fnLine := lineOf(fn)
		if _, seen := results[fnLine]; seen {
			return
		}
		c := &counter{fnLine: fnLine}
		for i := 0; i < int(fn.ChildCount()); i++ {
			c.visit(fn.Child(i))
		}
		sort.SliceStable(c.points, func(i, j int) bool { return c.points[i].Line < c.points[j].Line })
		if c.points == nil {
			c.points = []types.DecisionPoint{}
		}
		results[fnLine] = Result{
			CalculatedTotal: len(c.points) + 1,
			DecisionPoints:  c.points,
		}
	})
	return results, nil
}

// counter collects the decision points of one function body.
type counter struct {
	fnLine int
	points []types.DecisionPoint
}

func (c *counter) add(node *sitter.Node, typ string) {
	c.points = append(c.points, types.NewDecisionPoint(lineOf(node), typ, c.fnLine))
}

// visit counts node and its descendants, stopping at nested functions,
// which carry their own complexity.
func (c *counter) visit(node *sitter.Node) {
	if node == nil || boundary.IsFunctionNode(node.Type()) {
		return
	}

	switch node.Type() {
	case "if_statement":
		if parent := node.Parent(); parent != nil && parent.Type() == "else_clause" {
			c.add(node, types.TypeElseIf)
		} else {
			c.add(node, types.TypeIf)
		}
	case "for_statement":
		c.add(node, types.TypeFor)
	case "for_in_statement":
		if hasToken(node, "of") {
			c.add(node, types.TypeForOf)
		} else {
			c.add(node, types.TypeForIn)
		}
	case "while_statement":
		c.add(node, types.TypeWhile)
	case "do_statement":
		c.add(node, types.TypeDoWhile)
	case "switch_case":
		c.add(node, types.TypeCase)
	case "catch_clause":
		c.add(node, types.TypeCatch)
	case "ternary_expression":
		c.add(node, types.TypeTernary)
	case "binary_expression", "augmented_assignment_expression":
		if op := node.ChildByFieldName("operator"); op != nil {
			if typ, ok := logicalOperator(op.Type()); ok {
				c.add(op, typ)
			}
		}
	case "optional_chain":
		c.add(node, types.TypeOptionalChain)
	case "assignment_pattern", "object_assignment_pattern":
		c.add(node, types.TypeDefaultParameter)
	case "required_parameter", "optional_parameter":
		if node.ChildByFieldName("value") != nil {
			c.add(node, types.TypeDefaultParameter)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		c.visit(node.Child(i))
	}
}

// logicalOperator maps a short-circuit operator token, plain or in a
// logical assignment, to its decision point type.
func logicalOperator(op string) (string, bool) {
	switch op {
	case "&&", "&&=":
		return types.TypeAnd, true
	case "||", "||=":
		return types.TypeOr, true
	case "??", "??=":
		return types.TypeNullish, true
	}
	return "", false
}

func hasToken(node *sitter.Node, typ string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil && child.Type() == typ {
			return true
		}
	}
	return false
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
