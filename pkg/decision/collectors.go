package decision

import (
	"regexp"
	"strings"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

var (
	ifRe          = regexp.MustCompile(`\bif\s*\(`)
	elseBeforeRe  = regexp.MustCompile(`\belse\s+$`)
	forRe         = regexp.MustCompile(`\bfor\s*(?:await\s*)?\(`)
	forOfRe       = regexp.MustCompile(`\bof\b`)
	forInRe       = regexp.MustCompile(`\bin\b`)
	whileRe       = regexp.MustCompile(`\bwhile\s*\(`)
	switchRe      = regexp.MustCompile(`\bswitch\s*\(`)
	caseRe        = regexp.MustCompile(`(?:^|[{;:]\s*)case\b`)
	defaultCaseRe = regexp.MustCompile(`^default\s*:`)
	catchRe       = regexp.MustCompile(`\bcatch\s*(?:\(|\{)`)
)

// collectConditionals emits if and else if points together with the
// logical operators of their conditions.
func (e *extractor) collectConditionals(ln sourceLine, work []byte) {
	for _, m := range ifRe.FindAllStringIndex(ln.Code, -1) {
		kw, open := m[0], m[1]-1
		if isMemberAccess(ln.Code, kw) {
			continue
		}
		closeIdx := matchParen(ln.Code, open)
		end := closeIdx
		if end < 0 {
			end = len(ln.Code)
		}

		var fn int
		if elseBeforeRe.MatchString(ln.Code[:kw]) {
			fn, _ = e.attr.InnermostFunction(ln.Num)
			e.emit(ln.Num, types.TypeElseIf, fn)
			for _, op := range logicalOperators(ln.Code, open+1, end) {
				e.emit(ln.Num, op.typ, fn)
			}
		} else {
			fn = e.ownerAt(ln, kw)
			e.emit(ln.Num, types.TypeIf, fn)
			e.emitLogicalRange(ln, open+1, end)
		}
		blankRange(work, open, end+1)

		if closeIdx < 0 {
			e.openCondition(ln, open, fn)
		}
	}
}

// openCondition starts tracking a condition left open at the end of ln.
func (e *extractor) openCondition(ln sourceLine, open, fn int) {
	depth := parenBalance(ln.Code, open)
	if depth <= 0 {
		return
	}
	e.cond = &openCondition{openLine: ln.Num, depth: depth, fnLine: fn}
}

// collectLoops emits for, for...of, for...in, while and do...while points.
// Only plain for and while conditions contribute logical operators; a
// do...while condition is left to the generic logical path.
func (e *extractor) collectLoops(idx int, ln sourceLine, work []byte) {
	for _, m := range forRe.FindAllStringIndex(ln.Code, -1) {
		kw, open := m[0], m[1]-1
		if isMemberAccess(ln.Code, kw) {
			continue
		}
		end := matchParen(ln.Code, open)
		if end < 0 {
			end = len(ln.Code)
		}

		typ := classifyFor(ln.Code[open+1 : end])
		e.emit(ln.Num, typ, e.ownerAt(ln, kw))
		if typ == types.TypeFor {
			e.emitLogicalRange(ln, open+1, end)
		}
		blankRange(work, open, end+1)
	}

	for _, m := range whileRe.FindAllStringIndex(ln.Code, -1) {
		kw, open := m[0], m[1]-1
		if isMemberAccess(ln.Code, kw) {
			continue
		}
		if e.isDoWhile(idx, ln, kw, open) {
			e.emit(ln.Num, types.TypeDoWhile, e.ownerAt(ln, kw))
			continue
		}

		closeIdx := matchParen(ln.Code, open)
		end := closeIdx
		if end < 0 {
			end = len(ln.Code)
		}
		fn := e.ownerAt(ln, kw)
		e.emit(ln.Num, types.TypeWhile, fn)
		e.emitLogicalRange(ln, open+1, end)
		blankRange(work, open, end+1)

		if closeIdx < 0 {
			e.openCondition(ln, open, fn)
		}
	}
}

// classifyFor tells a counting for loop from for...of and for...in by the
// keyword inside its header.
func classifyFor(header string) string {
	if strings.Contains(header, ";") {
		return types.TypeFor
	}
	if forOfRe.MatchString(header) {
		return types.TypeForOf
	}
	if forInRe.MatchString(header) {
		return types.TypeForIn
	}
	return types.TypeFor
}

// isDoWhile reports whether the while keyword at kw closes a do block:
// either "} while (...)" on one line, or "while (...);" right after a line
// ending in "}".
func (e *extractor) isDoWhile(idx int, ln sourceLine, kw, open int) bool {
	if strings.HasSuffix(strings.TrimSpace(ln.Code[:kw]), "}") {
		return true
	}
	if strings.TrimSpace(ln.Code[:kw]) != "" {
		return false
	}
	closeIdx := matchParen(ln.Code, open)
	if closeIdx < 0 || !strings.HasPrefix(strings.TrimSpace(ln.Code[closeIdx+1:]), ";") {
		return false
	}
	return strings.HasSuffix(e.trimmedCode(e.prevCodeLine(idx)), "}")
}

// collectSwitch emits a switch point with its condition operators, and one
// case point per line carrying case or default labels.
func (e *extractor) collectSwitch(ln sourceLine, work []byte) {
	for _, m := range switchRe.FindAllStringIndex(ln.Code, -1) {
		kw, open := m[0], m[1]-1
		if isMemberAccess(ln.Code, kw) {
			continue
		}
		end := matchParen(ln.Code, open)
		if end < 0 {
			end = len(ln.Code)
		}
		e.emit(ln.Num, types.TypeSwitch, e.ownerAt(ln, kw))
		e.emitLogicalRange(ln, open+1, end)
		blankRange(work, open, end+1)
	}

	trimmed := strings.TrimSpace(ln.Code)
	if caseRe.MatchString(trimmed) || (defaultCaseRe.MatchString(trimmed) && e.braces.inSwitchBody()) {
		fn, _ := e.attr.InnermostFunction(ln.Num)
		e.emit(ln.Num, types.TypeCase, fn)
	}
}

// braceTracker follows brace nesting across lines and remembers which
// depths open a switch body, so a default label can be told apart from an
// object key named default.
type braceTracker struct {
	depth   int
	pending bool
	bodies  []int
}

// track consumes the braces of one masked line.
func (b *braceTracker) track(code string) {
	switches := switchRe.FindAllStringIndex(code, -1)
	next := 0
	for i := 0; i < len(code); i++ {
		for next < len(switches) && switches[next][0] <= i {
			if !isMemberAccess(code, switches[next][0]) {
				b.pending = true
			}
			next++
		}
		switch code[i] {
		case '{':
			b.depth++
			if b.pending {
				b.bodies = append(b.bodies, b.depth)
				b.pending = false
			}
		case '}':
			if n := len(b.bodies); n > 0 && b.bodies[n-1] == b.depth {
				b.bodies = b.bodies[:n-1]
			}
			b.depth--
		}
	}
}

// inSwitchBody reports whether the innermost open brace is a switch body.
func (b *braceTracker) inSwitchBody() bool {
	n := len(b.bodies)
	return n > 0 && b.bodies[n-1] == b.depth
}

// collectCatch emits a catch point for catch clauses, skipping promise
// .catch() calls, plus any logical operators in the parameter.
func (e *extractor) collectCatch(ln sourceLine, work []byte) {
	for _, m := range catchRe.FindAllStringIndex(ln.Code, -1) {
		kw := m[0]
		if isMemberAccess(ln.Code, kw) {
			continue
		}
		e.emit(ln.Num, types.TypeCatch, e.ownerAt(ln, kw))

		open := m[1] - 1
		if ln.Code[open] != '(' {
			continue
		}
		end := matchParen(ln.Code, open)
		if end < 0 {
			end = len(ln.Code)
		}
		e.emitLogicalRange(ln, open+1, end)
		blankRange(work, open, end+1)
	}
}
