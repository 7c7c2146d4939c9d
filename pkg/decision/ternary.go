package decision

import "strings"

// maxTernaryLookahead bounds how many following lines a multi-line ternary
// may span before the search gives up.
const maxTernaryLookahead = 20

// DepthState is the paren, brace and bracket nesting at a scan position.
type DepthState struct {
	Paren   int
	Brace   int
	Bracket int
}

// Apply returns the depth after consuming ch.
func (d DepthState) Apply(ch byte) DepthState {
	switch ch {
	case '(':
		d.Paren++
	case ')':
		d.Paren--
	case '{':
		d.Brace++
	case '}':
		d.Brace--
	case '[':
		d.Bracket++
	case ']':
		d.Bracket--
	}
	return d
}

// within reports whether d is no more than tolerance levels away from base
// on every axis.
func (d DepthState) within(base DepthState, tolerance int) bool {
	return abs(d.Paren-base.Paren) <= tolerance &&
		abs(d.Brace-base.Brace) <= tolerance &&
		abs(d.Bracket-base.Bracket) <= tolerance
}

// DepthAt scans the prefix of line up to idx and returns its nesting depth.
func DepthAt(line string, idx int) DepthState {
	var d DepthState
	if idx > len(line) {
		idx = len(line)
	}
	for i := 0; i < idx; i++ {
		d = d.Apply(line[i])
	}
	return d
}

// ternaryScan carries the forward scan for a matching ':'.
type ternaryScan struct {
	start        DepthState
	depth        DepthState
	ternaryDepth int
	jsx          bool
}

// scanResult is the outcome of scanning one line.
type scanResult int

const (
	scanContinue scanResult = iota
	scanMatched
	scanStopped
)

// step consumes the byte at code[i]. tolerance widens the depth match used
// once the scan has crossed a line break.
func (t *ternaryScan) step(code string, i int, tolerance int) scanResult {
	ch := code[i]
	switch ch {
	case '?':
		next := byteAt(code, i+1)
		if next == '.' || next == '?' || byteAt(code, i-1) == '?' {
			return scanContinue
		}
		t.ternaryDepth++
	case ':':
		if !t.depth.within(t.start, tolerance) {
			return scanContinue
		}
		if t.ternaryDepth == 0 {
			return scanMatched
		}
		t.ternaryDepth--
	case ';':
		if tolerance == 0 {
			if !t.jsx && t.depth == t.start {
				return scanStopped
			}
		} else if t.depth.within(t.start, tolerance) && t.ternaryDepth == 0 {
			return scanStopped
		}
	case ',':
		if !t.jsx && t.depth.within(t.start, tolerance) && t.ternaryDepth == 0 {
			return scanStopped
		}
	default:
		t.depth = t.depth.Apply(ch)
		if ch == '}' && tolerance > 0 && t.depth.Brace < t.start.Brace {
			return scanStopped
		}
	}
	return scanContinue
}

// MatchTernary reports whether the '?' at column qIdx of code[lineIdx] is a
// real conditional operator, meaning a ':' closes it at the same nesting
// depth. code holds masked source lines, so string content never matches.
// Callers exclude "?.", "??" and optional-parameter markers beforehand.
func MatchTernary(code []string, lineIdx, qIdx int) bool {
	if lineIdx < 0 || lineIdx >= len(code) {
		return false
	}
	line := code[lineIdx]
	if qIdx < 0 || qIdx >= len(line) || line[qIdx] != '?' {
		return false
	}

	start := DepthAt(line, qIdx)
	rest := strings.TrimSpace(line[qIdx+1:])
	scan := &ternaryScan{
		start: start,
		depth: start,
		jsx:   looksLikeJSXTernary(line, qIdx),
	}

	for i := qIdx + 1; i < len(line); i++ {
		switch scan.step(line, i, 0) {
		case scanMatched:
			return true
		case scanStopped:
			return false
		}
	}

	if !scan.jsx && !continuesOnNextLine(line, qIdx, rest) {
		return false
	}

	for n := 1; n <= maxTernaryLookahead && lineIdx+n < len(code); n++ {
		next := code[lineIdx+n]
		for i := 0; i < len(next); i++ {
			switch scan.step(next, i, 1) {
			case scanMatched:
				return true
			case scanStopped:
				return false
			}
		}
	}
	return false
}

// looksLikeJSXTernary applies the JSX heuristic: a '{' opens before the '?'
// or the consequent starts with '('.
func looksLikeJSXTernary(line string, qIdx int) bool {
	if strings.Contains(line[:qIdx], "{") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(line[qIdx+1:]), "(")
}

// continuesOnNextLine reports whether a non-JSX ternary is formatted across
// lines: the line starts with the '?' or ends right after it.
func continuesOnNextLine(line string, qIdx int, rest string) bool {
	if rest == "" {
		return true
	}
	return strings.TrimSpace(line[:qIdx]) == ""
}

// isOptionalMarker reports whether the '?' at idx marks a TypeScript
// optional parameter or property: "name?: Type", "name?," or "name?)".
func isOptionalMarker(code string, idx int) bool {
	if !isIdentByte(byteAt(code, idx-1)) && byteAt(code, idx-1) != ']' {
		return false
	}
	switch nextNonSpace(code, idx+1) {
	case ':', ',', ')':
		return true
	}
	return false
}

// byteAt returns s[i], or 0 when i is out of range.
func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// nextNonSpace returns the first non-blank byte at or after i.
func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
