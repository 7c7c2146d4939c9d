package decision

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// maxConditionContinuation is how many lines after an if/while opens its
// condition a later line still counts as part of that condition.
const maxConditionContinuation = 5

// callbackStartRe finds where an inline callback begins on a line.
var callbackStartRe = regexp.MustCompile(`=>|\bfunction\b`)

// openCondition is an if/while condition whose parenthesis did not close on
// the line that opened it.
type openCondition struct {
	openLine int
	depth    int
	fnLine   int
}

// extractor holds the per-file scan state.
type extractor struct {
	lines  []sourceLine
	code   []string
	attr   AttributionContext
	points []types.DecisionPoint

	cond           *openCondition
	braces         braceTracker
	logicalLines   map[int]bool
	signatureSeen  map[[2]int]bool
	signatureCount map[int]int
}

// Extract returns every decision point in source, attributed to the
// function boundaries that own them. Lines outside all boundaries yield
// nothing. The result is ordered by line, then by detection order within a
// line, and is deduplicated.
func Extract(source string, boundaries types.BoundaryMap) []types.DecisionPoint {
	lines := prepareLines(source)
	code := make([]string, len(lines))
	for i, ln := range lines {
		code[i] = ln.Code
	}

	e := &extractor{
		lines:          lines,
		code:           code,
		attr:           NewAttributionContext(boundaries),
		logicalLines:   make(map[int]bool),
		signatureSeen:  make(map[[2]int]bool),
		signatureCount: make(map[int]int),
	}
	for idx := range lines {
		e.scanLine(idx)
	}

	sort.SliceStable(e.points, func(i, j int) bool {
		return e.points[i].Line < e.points[j].Line
	})
	return Deduplicate(e.points)
}

// ExtractWithFunctions is Extract for callers holding function metadata.
// When boundaries is nil it is derived from functions.
func ExtractWithFunctions(source string, boundaries types.BoundaryMap, functions []types.FunctionInfo) []types.DecisionPoint {
	if boundaries == nil {
		boundaries = types.BoundariesOf(functions)
	}
	return Extract(source, boundaries)
}

// scanLine runs every collector over one line.
func (e *extractor) scanLine(idx int) {
	ln := e.lines[idx]
	if ln.blank() {
		return
	}
	defer e.braces.track(ln.Code)
	if _, ok := e.attr.InnermostFunction(ln.Num); !ok {
		e.cond = nil
		return
	}

	// work is the line's code with the spans already claimed by a control
	// construct blanked out, leaving what the generic logical path may see.
	work := []byte(ln.Code)

	e.continueCondition(ln, work)
	e.collectConditionals(ln, work)
	e.collectLoops(idx, ln, work)
	e.collectSwitch(ln, work)
	e.collectCatch(ln, work)
	e.collectTernaries(idx, ln)
	e.collectNullish(ln)
	e.collectOptionalChaining(ln)
	e.collectLogical(idx, ln, string(work))
	e.collectDefaultParams(idx, ln)
}

// emit records one decision point.
func (e *extractor) emit(line int, typ string, fnLine int) {
	e.points = append(e.points, types.NewDecisionPoint(line, typ, fnLine))
}

// ownerAt attributes the token at column idx of ln. Tokens after an inline
// callback starts belong to the innermost function; tokens before it belong
// to the enclosing function, ignoring callbacks that start on this line.
func (e *extractor) ownerAt(ln sourceLine, idx int) int {
	if loc := callbackStartRe.FindStringIndex(ln.Code); loc != nil && idx > loc[0] {
		if fn, ok := e.attr.InnermostFunction(ln.Num); ok {
			return fn
		}
	}
	fn, _ := e.attr.FunctionLineForControlStructure(ln.Num)
	return fn
}

// emitLogicalRange emits every && and || in ln.Code[from:to], each owned per
// ownerAt.
func (e *extractor) emitLogicalRange(ln sourceLine, from, to int) {
	for _, op := range logicalOperators(ln.Code, from, to) {
		e.emit(ln.Num, op.typ, e.ownerAt(ln, op.idx))
	}
}

// continueCondition handles a line inside a multi-line if/while condition.
// Its operators up to the closing parenthesis are counted once, attributed
// like the opening line.
func (e *extractor) continueCondition(ln sourceLine, work []byte) {
	if e.cond == nil {
		return
	}
	if ln.Num-e.cond.openLine > maxConditionContinuation {
		e.cond = nil
		return
	}

	end := len(ln.Code)
	depth := e.cond.depth
	for i := 0; i < len(ln.Code); i++ {
		switch ln.Code[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			end = i
			break
		}
	}

	fn, ok := e.attr.ContinuationFunction(e.cond.openLine, ln.Num)
	if !ok {
		fn = e.cond.fnLine
	}
	for _, op := range logicalOperators(ln.Code, 0, end) {
		e.emit(ln.Num, op.typ, fn)
	}
	blankRange(work, 0, end)
	e.logicalLines[ln.Num] = true

	if depth == 0 {
		e.cond = nil
		return
	}
	e.cond.depth = depth
}

// opMatch is one && or || occurrence.
type opMatch struct {
	idx int
	typ string
}

// logicalOperators lists && and || in code[from:to], left to right.
func logicalOperators(code string, from, to int) []opMatch {
	if to > len(code) {
		to = len(code)
	}
	var ops []opMatch
	for i := from; i+1 < to; i++ {
		switch {
		case code[i] == '&' && code[i+1] == '&':
			ops = append(ops, opMatch{idx: i, typ: types.TypeAnd})
			i++
		case code[i] == '|' && code[i+1] == '|':
			ops = append(ops, opMatch{idx: i, typ: types.TypeOr})
			i++
		}
	}
	return ops
}

// hasLogicalOperator reports whether code holds && or ||.
func hasLogicalOperator(code string) bool {
	return strings.Contains(code, "&&") || strings.Contains(code, "||")
}

// matchParen returns the index of the ')' closing the '(' at open, or -1 if
// it does not close on this line.
func matchParen(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parenBalance returns the open-paren count left unclosed in code[from:].
func parenBalance(code string, from int) int {
	depth := 0
	for i := from; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

// isMemberAccess reports whether the keyword at idx is a property access
// such as promise.catch(...).
func isMemberAccess(code string, idx int) bool {
	for i := idx - 1; i >= 0; i-- {
		switch code[i] {
		case ' ', '\t':
			continue
		case '.':
			return !(i > 0 && code[i-1] == '.')
		}
		return false
	}
	return false
}

// blankRange overwrites work[from:to] with spaces.
func blankRange(work []byte, from, to int) {
	if to > len(work) {
		to = len(work)
	}
	for i := from; i < to; i++ {
		work[i] = ' '
	}
}

// prevCodeLine returns the index of the nearest non-blank line before idx,
// or -1.
func (e *extractor) prevCodeLine(idx int) int {
	for i := idx - 1; i >= 0; i-- {
		if !e.lines[i].blank() {
			return i
		}
	}
	return -1
}

// nextCodeLine returns the index of the nearest non-blank line after idx,
// or -1.
func (e *extractor) nextCodeLine(idx int) int {
	for i := idx + 1; i < len(e.lines); i++ {
		if !e.lines[i].blank() {
			return i
		}
	}
	return -1
}

// trimmedCode returns the line's code without surrounding whitespace, or ""
// for an out-of-range index.
func (e *extractor) trimmedCode(idx int) string {
	if idx < 0 || idx >= len(e.lines) {
		return ""
	}
	return strings.TrimSpace(e.lines[idx].Code)
}
