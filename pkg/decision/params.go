package decision

import (
	"regexp"
	"strings"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

const (
	// maxSignatureLines bounds how far a parameter list may spread.
	maxSignatureLines = 15
	// destructuringWindow is how many lines into a function body a
	// destructuring declaration may sit and still have its defaults counted.
	destructuringWindow = 15
)

var (
	functionParamsRe = regexp.MustCompile(`\bfunction\b\s*\*?\s*[\w$]*\s*(?:<[^>]*>)?\s*\(`)
	methodParamsRe   = regexp.MustCompile(`^(?:(?:public|private|protected|static|async|readonly|override|get|set)\s+)*\*?\s*#?[\w$]+\s*(?:<[^>]*>)?\s*\(`)
	arrowRe          = regexp.MustCompile(`=>`)
	arrowReturnRe    = regexp.MustCompile(`\)\s*(?::[^=()]*)?$`)
	destructureRe    = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s*([{\[])`)
	methodBodyRe     = regexp.MustCompile(`^\s*(?::[^{=]*)?\{`)
)

// controlKeywords look like method signatures to methodParamsRe.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "typeof": true, "await": true, "new": true,
}

// position is a (line index, column) location in the masked source.
type position struct {
	line int
	col  int
}

// span is a parameter list or destructuring pattern, from its opening to
// its closing bracket.
type span struct {
	open  position
	close position
}

// collectDefaultParams emits default parameter points for the signatures
// and destructuring declarations starting on the line at idx.
func (e *extractor) collectDefaultParams(idx int, ln sourceLine) {
	var signatures []span

	for _, m := range functionParamsRe.FindAllStringIndex(ln.Code, -1) {
		if s, ok := e.forwardSpan(idx, m[1]-1, '(', ')'); ok {
			signatures = append(signatures, s)
		}
	}

	trimmedStart := len(ln.Code) - len(strings.TrimLeft(ln.Code, " \t"))
	if m := methodParamsRe.FindStringIndex(ln.Code[trimmedStart:]); m != nil {
		name := strings.TrimSpace(strings.TrimRight(ln.Code[trimmedStart:trimmedStart+m[1]-1], " \t"))
		name = lastWord(name)
		if !controlKeywords[name] {
			if s, ok := e.forwardSpan(idx, trimmedStart+m[1]-1, '(', ')'); ok && e.followedBy(s.close, methodBodyRe) {
				signatures = append(signatures, s)
			}
		}
	}

	for _, m := range arrowRe.FindAllStringIndex(ln.Code, -1) {
		if s, ok := e.arrowParams(idx, m[0]); ok {
			signatures = append(signatures, s)
		}
	}

	for _, s := range signatures {
		key := [2]int{s.open.line, s.open.col}
		if e.signatureSeen[key] {
			continue
		}
		e.signatureSeen[key] = true
		if fn, ok := e.signatureOwner(s, ln.Num); ok {
			e.emitDefaults(s, fn)
		}
	}

	e.collectDestructuringDefaults(idx, ln)
}

// signatureOwner picks the function a parameter list belongs to. The nth
// parameter list opening on a line maps to the nth largest boundary starting
// on that line; with no boundary starting there, the innermost one wins.
// When the opening line lies outside every boundary, the owner of
// scanLine, the line the signature was found from, is used instead.
func (e *extractor) signatureOwner(s span, scanLine int) (int, bool) {
	sigLine := e.lines[s.open.line].Num
	nth := e.signatureCount[sigLine]
	e.signatureCount[sigLine]++

	starting := e.attr.FunctionsStartingOn(sigLine)
	if len(starting) == 0 {
		if fn, ok := e.attr.InnermostFunction(sigLine); ok {
			return fn, true
		}
		return e.attr.InnermostFunction(scanLine)
	}
	if nth >= len(starting) {
		nth = len(starting) - 1
	}
	return starting[nth], true
}

// emitDefaults counts each standalone '=' inside the span as one default.
// Lines of the span outside every boundary contribute nothing.
func (e *extractor) emitDefaults(s span, fn int) {
	for li := s.open.line; li <= s.close.line; li++ {
		if len(e.attr.Candidates(e.lines[li].Num)) == 0 {
			continue
		}
		code := e.code[li]
		from, to := 0, len(code)
		if li == s.open.line {
			from = s.open.col + 1
		}
		if li == s.close.line {
			to = s.close.col
		}
		for range defaultAssignments(code, from, to) {
			e.emit(e.lines[li].Num, types.TypeDefaultParameter, fn)
		}
	}
}

// defaultAssignments returns the columns of '=' in code[from:to] that are
// plain assignments rather than part of ==, ===, !=, <=, >=, => or a
// compound operator.
func defaultAssignments(code string, from, to int) []int {
	var cols []int
	if to > len(code) {
		to = len(code)
	}
	for i := from; i < to; i++ {
		if code[i] != '=' {
			continue
		}
		prev, next := byteAt(code, i-1), byteAt(code, i+1)
		if next == '=' || next == '>' {
			i++
			continue
		}
		if strings.IndexByte("=!<>+-*/%&|^?", prev) >= 0 && prev != 0 {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

// arrowParams finds the parenthesised parameter list ending right before
// the "=>" at column arrow of line idx, possibly on earlier lines.
func (e *extractor) arrowParams(idx, arrow int) (span, bool) {
	before := e.code[idx][:arrow]
	loc := arrowReturnRe.FindStringIndex(before)
	closeLine, closeCol := idx, -1
	if loc != nil {
		closeCol = loc[0]
	} else if strings.TrimSpace(before) == "" {
		prev := e.prevCodeLine(idx)
		if prev < 0 || idx-prev > 1 {
			return span{}, false
		}
		if loc = arrowReturnRe.FindStringIndex(e.code[prev]); loc == nil {
			return span{}, false
		}
		closeLine, closeCol = prev, loc[0]
	}
	if closeCol < 0 {
		return span{}, false
	}
	return e.backwardSpan(closeLine, closeCol, '(', ')')
}

// forwardSpan matches the opener at (idx, col) to its closer, crossing at
// most maxSignatureLines lines.
func (e *extractor) forwardSpan(idx, col int, opener, closer byte) (span, bool) {
	depth := 0
	for li := idx; li < len(e.code) && li <= idx+maxSignatureLines; li++ {
		code := e.code[li]
		start := 0
		if li == idx {
			start = col
		}
		for i := start; i < len(code); i++ {
			switch code[i] {
			case opener:
				depth++
			case closer:
				depth--
				if depth == 0 {
					return span{open: position{idx, col}, close: position{li, i}}, true
				}
			}
		}
	}
	return span{}, false
}

// backwardSpan matches the closer at (idx, col) to its opener, crossing at
// most maxSignatureLines lines.
func (e *extractor) backwardSpan(idx, col int, opener, closer byte) (span, bool) {
	depth := 0
	for li := idx; li >= 0 && li >= idx-maxSignatureLines; li-- {
		code := e.code[li]
		start := len(code) - 1
		if li == idx {
			start = col
		}
		for i := start; i >= 0; i-- {
			switch code[i] {
			case closer:
				depth++
			case opener:
				depth--
				if depth == 0 {
					return span{open: position{li, i}, close: position{idx, col}}, true
				}
			}
		}
	}
	return span{}, false
}

// followedBy reports whether the code after p matches re, looking at the
// rest of p's line and, if that is empty, the next code line.
func (e *extractor) followedBy(p position, re *regexp.Regexp) bool {
	rest := e.code[p.line][p.col+1:]
	if strings.TrimSpace(rest) == "" {
		next := e.nextCodeLine(p.line)
		if next < 0 {
			return false
		}
		rest = e.code[next]
	}
	return re.MatchString(rest)
}

// collectDestructuringDefaults emits defaults from "const { a = 1 } = x"
// style declarations within the first lines of the owning function.
func (e *extractor) collectDestructuringDefaults(idx int, ln sourceLine) {
	trimmedStart := len(ln.Code) - len(strings.TrimLeft(ln.Code, " \t"))
	m := destructureRe.FindStringSubmatchIndex(ln.Code[trimmedStart:])
	if m == nil {
		return
	}

	fn, ok := e.attr.InnermostFunction(ln.Num)
	if !ok {
		return
	}
	b, ok := e.attr.BoundaryOf(fn)
	if !ok || ln.Num-b.Start >= destructuringWindow {
		return
	}

	col := trimmedStart + m[2]
	opener := ln.Code[col]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}
	s, ok := e.forwardSpan(idx, col, opener, closer)
	if !ok {
		return
	}
	rest := strings.TrimSpace(e.code[s.close.line][s.close.col+1:])
	if !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "==") || strings.HasPrefix(rest, "=>") {
		return
	}
	e.emitDefaults(s, fn)
}

// lastWord returns the final identifier-like word of s.
func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[len(fields)-1], "*#")
}
