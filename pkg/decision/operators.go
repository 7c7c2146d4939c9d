package decision

import (
	"strings"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// collectTernaries emits a ternary point for every '?' certified by
// MatchTernary. A line starting with '?' whose next line starts with ':'
// also claims the logical operators of the line holding the condition.
func (e *extractor) collectTernaries(idx int, ln sourceLine) {
	if !HasQuestionMarkOutsideString(ln.Code) {
		return
	}
	code := ln.Code
	for i := 0; i < len(code); i++ {
		if code[i] != '?' {
			continue
		}
		next := byteAt(code, i+1)
		if next == '.' || next == '?' {
			i++
			continue
		}
		if isOptionalMarker(code, i) {
			continue
		}
		if MatchTernary(e.code, idx, i) {
			e.emit(ln.Num, types.TypeTernary, e.ownerAt(ln, i))
		}
	}

	if !e.isTernaryBranchLine(idx) {
		return
	}
	prev := e.prevCodeLine(idx)
	if prev < 0 || e.logicalLines[e.lines[prev].Num] {
		return
	}
	pl := e.lines[prev]
	if _, ok := e.attr.InnermostFunction(pl.Num); !ok {
		return
	}
	e.emitLogicalRange(pl, 0, len(pl.Code))
	e.logicalLines[pl.Num] = true
}

// isTernaryBranchLine reports whether the line at idx starts with the '?'
// of a ternary whose ':' opens the next code line.
func (e *extractor) isTernaryBranchLine(idx int) bool {
	trimmed := e.trimmedCode(idx)
	if !strings.HasPrefix(trimmed, "?") || strings.HasPrefix(trimmed, "?.") || strings.HasPrefix(trimmed, "??") {
		return false
	}
	return strings.HasPrefix(e.trimmedCode(e.nextCodeLine(idx)), ":")
}

// isTernaryConditionLine reports whether the line at idx holds the
// condition of a ternary split as condition / ? branch / : branch.
func (e *extractor) isTernaryConditionLine(idx int) bool {
	next := e.nextCodeLine(idx)
	return next >= 0 && e.isTernaryBranchLine(next)
}

// collectNullish emits a ?? point per nullish coalescing operator.
func (e *extractor) collectNullish(ln sourceLine) {
	code := ln.Code
	for i := 0; i+1 < len(code); i++ {
		if code[i] == '?' && code[i+1] == '?' {
			e.emit(ln.Num, types.TypeNullish, e.ownerAt(ln, i))
			i++
		}
	}
}

// collectOptionalChaining emits a ?. point per optional chain link.
func (e *extractor) collectOptionalChaining(ln sourceLine) {
	code := ln.Code
	for i := 0; i+1 < len(code); i++ {
		if code[i] != '?' {
			continue
		}
		if code[i+1] == '?' {
			i++
			continue
		}
		if code[i+1] == '.' {
			e.emit(ln.Num, types.TypeOptionalChain, e.ownerAt(ln, i))
		}
	}
}

// collectLogical counts && and || that no control construct claimed.
// Returns, assignments, parenthesized and JSX expressions and bare
// expressions all count; condition and loop header spans are already
// blanked in work. The condition line of a ternary split over three lines
// is skipped here and claimed by collectTernaries instead.
func (e *extractor) collectLogical(idx int, ln sourceLine, work string) {
	if e.isTernaryConditionLine(idx) || !hasLogicalOperator(work) {
		return
	}
	for _, op := range logicalOperators(work, 0, len(work)) {
		e.emit(ln.Num, op.typ, e.ownerAt(ln, op.idx))
	}
	e.logicalLines[ln.Num] = true
}
