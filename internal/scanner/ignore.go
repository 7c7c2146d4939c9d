package scanner

import (
	"path"
	"strings"
)

// IgnorePattern is one line of a .cxcheckignore file, with gitignore
// semantics for !, a trailing / and a leading /.
type IgnorePattern struct {
	raw      string
	negate   bool
	dirOnly  bool
	anchored bool
	segments []string
}

// ParseIgnorePattern parses a gitignore-style pattern.
func ParseIgnorePattern(line string) IgnorePattern {
	p := IgnorePattern{raw: line}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	}
	// A slash in the middle anchors the pattern too.
	if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		p.anchored = true
	}
	p.segments = strings.Split(line, "/")
	return p
}

// String returns the pattern as written.
func (p IgnorePattern) String() string {
	return p.raw
}

// IsNegation reports whether the pattern re-includes what it matches.
func (p IgnorePattern) IsNegation() bool {
	return p.negate
}

// Match reports whether relPath, slash separated and relative to the scan
// root, is matched. isDir tells whether relPath names a directory. A file
// inside a matched directory is matched as well.
func (p IgnorePattern) Match(relPath string, isDir bool) bool {
	parts := strings.Split(relPath, "/")

	// Try the path itself, then each of its parent directories.
	for n := len(parts); n > 0; n-- {
		candidateIsDir := isDir || n < len(parts)
		if p.dirOnly && !candidateIsDir {
			continue
		}
		if p.matchParts(parts[:n]) {
			return true
		}
	}
	return false
}

func (p IgnorePattern) matchParts(parts []string) bool {
	if p.anchored {
		return globSegments(p.segments, parts)
	}
	for start := 0; start < len(parts); start++ {
		if globSegments(p.segments, parts[start:]) {
			return true
		}
	}
	return false
}

// globSegments matches pattern segments against path segments, where "**"
// spans any number of segments.
func globSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if globSegments(pattern[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], parts[0])
	if err != nil || !ok {
		return false
	}
	return globSegments(pattern[1:], parts[1:])
}

// ignored applies patterns in order; a later negation overrides an earlier
// match.
func ignored(relPath string, isDir bool, patterns []IgnorePattern) bool {
	out := false
	for _, p := range patterns {
		if p.Match(relPath, isDir) {
			out = !p.IsNegation()
		}
	}
	return out
}
