// Package decision locates the decision points a cyclomatic complexity
// metric counts in JavaScript and TypeScript source and attributes each one
// to the function that owns it. It works on raw text, one line at a time,
// and never builds a syntax tree.
package decision

import "strings"

// MaskingState tracks whether a scan position sits inside string or
// template literal text.
type MaskingState struct {
	InSingleQuote        bool
	InDoubleQuote        bool
	InTemplateLiteral    bool
	InTemplateExpression bool
	TemplateBraceDepth   int
	Escaped              bool
}

// InString reports whether the current position is literal text. Code
// inside a ${...} template expression is live and does not count.
func (s MaskingState) InString() bool {
	if s.InSingleQuote || s.InDoubleQuote {
		return true
	}
	return s.InTemplateLiteral && !s.InTemplateExpression
}

// continuesLine reports whether the state survives a line break. Only
// template literals may span lines.
func (s MaskingState) continuesLine() MaskingState {
	return MaskingState{
		InTemplateLiteral:    s.InTemplateLiteral,
		InTemplateExpression: s.InTemplateExpression,
		TemplateBraceDepth:   s.TemplateBraceDepth,
	}
}

// Step consumes the character at index i and returns the new state together
// with the index of the next unconsumed character.
func (s MaskingState) Step(line string, i int) (MaskingState, int) {
	ch := line[i]

	if s.Escaped {
		s.Escaped = false
		return s, i + 1
	}
	if ch == '\\' {
		s.Escaped = true
		return s, i + 1
	}

	if s.InTemplateExpression {
		switch ch {
		case '{':
			s.TemplateBraceDepth++
		case '}':
			s.TemplateBraceDepth--
			if s.TemplateBraceDepth == 0 {
				s.InTemplateExpression = false
			}
		}
		// Quotes and backticks inside ${...} belong to the embedded code.
		return s, i + 1
	}

	if s.InTemplateLiteral && ch == '$' && i+1 < len(line) && line[i+1] == '{' {
		s.InTemplateExpression = true
		s.TemplateBraceDepth = 1
		return s, i + 2
	}

	switch ch {
	case '\'':
		if !s.InDoubleQuote && !s.InTemplateLiteral {
			s.InSingleQuote = !s.InSingleQuote
		}
	case '"':
		if !s.InSingleQuote && !s.InTemplateLiteral {
			s.InDoubleQuote = !s.InDoubleQuote
		}
	case '`':
		if !s.InSingleQuote && !s.InDoubleQuote {
			s.InTemplateLiteral = !s.InTemplateLiteral
			if !s.InTemplateLiteral {
				s.InTemplateExpression = false
				s.TemplateBraceDepth = 0
			}
		}
	}
	return s, i + 1
}

// ScanMasking returns the masking state in effect just before charIndex.
func ScanMasking(line string, charIndex int) MaskingState {
	var s MaskingState
	if charIndex > len(line) {
		charIndex = len(line)
	}
	for i := 0; i < charIndex; {
		s, i = s.Step(line, i)
	}
	return s
}

// IsInsideStringLiteral reports whether the character at charIndex is
// string or template literal text rather than code.
func IsInsideStringLiteral(line string, charIndex int) bool {
	return ScanMasking(line, charIndex).InString()
}

// HasQuestionMarkOutsideString reports whether line holds a '?' that is
// not part of string content.
func HasQuestionMarkOutsideString(line string) bool {
	mask := StringMask(line)
	for i := 0; i < len(line); i++ {
		if line[i] == '?' && !mask[i] {
			return true
		}
	}
	return false
}

// StringMask returns, for every byte of line, whether it is literal text.
func StringMask(line string) []bool {
	mask, _ := stringMaskFrom(MaskingState{}, line)
	return mask
}

// stringMaskFrom computes the literal mask of line starting from state and
// returns the state at the end of the line. The second byte of a "${"
// opener is code, matching the '}' that later closes it.
func stringMaskFrom(state MaskingState, line string) ([]bool, MaskingState) {
	mask := make([]bool, len(line))
	for i := 0; i < len(line); {
		inString := state.InString()
		next, j := state.Step(line, i)
		for k := i; k < j; k++ {
			mask[k] = inString
		}
		if j == i+2 && next.InTemplateExpression && !state.InTemplateExpression {
			mask[i+1] = false
		}
		state, i = next, j
	}
	return mask, state
}

// sourceLine is one line of the file prepared for scanning. Code has string
// content and comments replaced by spaces so that byte offsets still line up
// with Text.
type sourceLine struct {
	Num  int
	Text string
	Code string
}

// blank reports whether the line carries no code.
func (l sourceLine) blank() bool {
	return strings.TrimSpace(l.Code) == ""
}

// prepareLines splits source into lines and masks literal text and comments.
// Template literals may run across lines; quoted strings may not.
func prepareLines(source string) []sourceLine {
	raw := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	lines := make([]sourceLine, len(raw))

	var state MaskingState
	inBlockComment := false
	for idx, text := range raw {
		var mask []bool
		mask, state = stringMaskFrom(state, text)
		state = state.continuesLine()

		code := []byte(text)
		for i := range code {
			if mask[i] {
				code[i] = ' '
			}
		}
		inBlockComment = stripComments(code, inBlockComment)

		lines[idx] = sourceLine{Num: idx + 1, Text: text, Code: string(code)}
	}
	return lines
}

// stripComments blanks line and block comments in code, which must already
// have its literal text masked. It returns whether a block comment is still
// open at the end of the line.
func stripComments(code []byte, inBlock bool) bool {
	for i := 0; i < len(code); i++ {
		if inBlock {
			if code[i] == '*' && i+1 < len(code) && code[i+1] == '/' {
				code[i], code[i+1] = ' ', ' '
				i++
				inBlock = false
				continue
			}
			code[i] = ' '
			continue
		}
		if code[i] != '/' || i+1 >= len(code) {
			continue
		}
		switch code[i+1] {
		case '/':
			for k := i; k < len(code); k++ {
				code[k] = ' '
			}
			return false
		case '*':
			code[i], code[i+1] = ' ', ' '
			i++
			inBlock = true
		}
	}
	return inBlock
}
