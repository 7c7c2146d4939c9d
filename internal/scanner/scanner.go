// Package scanner walks a source tree and returns the JavaScript and
// TypeScript files to analyse. It honours .cxcheckignore files with
// gitignore-style patterns.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
)

// FileInfo describes one discovered source file.
type FileInfo struct {
	Path     string            // Relative path from root, slash separated
	FullPath string            // Absolute path
	Language boundary.Language // Grammar for the file
	Size     int64
}

// Options configures the scanner.
type Options struct {
	SkipHidden      bool
	FollowSymlinks  bool
	Extensions      []string // Extensions to keep; empty means every supported one
	DefaultExcludes []string // Directory names never entered
	Exclude         []string // Extra gitignore-style patterns
	IgnoreFileName  string
}

// DefaultOptions returns options suited to a JavaScript project.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		IgnoreFileName: ".cxcheckignore",
		DefaultExcludes: []string{
			"node_modules",
			".git",
			"dist",
			"build",
			"coverage",
			"out",
			".next",
			".nuxt",
			".turbo",
			".cache",
			"vendor",
			"storybook-static",
		},
	}
}

// Scanner walks source trees.
type Scanner struct {
	opts Options
	exts map[string]bool
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	s := &Scanner{opts: opts, exts: make(map[string]bool)}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = boundary.Extensions()
	}
	for _, ext := range exts {
		s.exts[strings.ToLower(ext)] = true
	}
	return s
}

// Scan returns the matching files under root, sorted by relative path.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	patterns := make([]IgnorePattern, 0, len(s.opts.Exclude))
	for _, line := range s.opts.Exclude {
		patterns = append(patterns, ParseIgnorePattern(line))
	}
	rootPatterns, err := s.loadIgnorePatterns(absRoot, "")
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}
	patterns = append(patterns, rootPatterns...)

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if s.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if s.isDefaultExcluded(d.Name()) || ignored(rel, true, patterns) {
				return filepath.SkipDir
			}
			nested, err := s.loadIgnorePatterns(path, rel)
			if err == nil {
				patterns = append(patterns, nested...)
			}
			return nil
		}

		if ignored(rel, false, patterns) || !s.wanted(d.Name()) {
			return nil
		}

		info, err := s.resolve(absRoot, path, d)
		if err != nil || info == nil {
			return nil
		}
		lang, err := boundary.LanguageFor(path)
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{Path: rel, FullPath: path, Language: lang, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Options returns the options the Scanner was created with.
func (s *Scanner) Options() Options {
	return s.opts
}

// Relevant reports whether a change to path, a file below root, could alter
// what Scan returns: an ignore file, or a source file Scan would keep under
// the configured extensions and excludes. Nested ignore files are not
// consulted.
func (s *Scanner) Relevant(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	patterns := make([]IgnorePattern, 0, len(s.opts.Exclude))
	for _, line := range s.opts.Exclude {
		patterns = append(patterns, ParseIgnorePattern(line))
	}
	parts := strings.Split(rel, "/")
	for i, part := range parts[:len(parts)-1] {
		if (s.opts.SkipHidden && strings.HasPrefix(part, ".")) || s.isDefaultExcluded(part) {
			return false
		}
		if ignored(strings.Join(parts[:i+1], "/"), true, patterns) {
			return false
		}
	}

	name := parts[len(parts)-1]
	if s.opts.IgnoreFileName != "" && name == s.opts.IgnoreFileName {
		return true
	}
	if s.opts.SkipHidden && strings.HasPrefix(name, ".") {
		return false
	}
	return !ignored(rel, false, patterns) && s.wanted(name)
}

// wanted reports whether a file name has a kept extension. Declaration
// files and minified bundles hold no hand-written functions.
func (s *Scanner) wanted(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".d.ts") || strings.HasSuffix(lower, ".min.js") {
		return false
	}
	return s.exts[filepath.Ext(lower)]
}

// resolve returns the file info for path, following a symlink only when
// allowed and only to a regular file inside root.
func (s *Scanner) resolve(absRoot, path string, d os.DirEntry) (os.FileInfo, error) {
	if d.Type()&os.ModeSymlink == 0 {
		return d.Info()
	}
	if !s.opts.FollowSymlinks {
		return nil, nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(target, absRoot+string(filepath.Separator)) {
		return nil, nil
	}
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return nil, err
	}
	return info, nil
}

func (s *Scanner) isDefaultExcluded(name string) bool {
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// loadIgnorePatterns reads the ignore file in dir. Patterns from a nested
// file are rebased onto prefix, dir's path relative to the root.
func (s *Scanner) loadIgnorePatterns(dir, prefix string) ([]IgnorePattern, error) {
	if s.opts.IgnoreFileName == "" {
		return nil, nil
	}
	file, err := os.Open(filepath.Join(dir, s.opts.IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var patterns []IgnorePattern
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if prefix != "" {
			line = rebase(line, prefix)
		}
		patterns = append(patterns, ParseIgnorePattern(line))
	}
	return patterns, sc.Err()
}

// rebase rewrites a nested ignore pattern so it only applies below prefix.
func rebase(line, prefix string) string {
	neg := ""
	if strings.HasPrefix(line, "!") {
		neg, line = "!", line[1:]
	}
	line = strings.TrimPrefix(line, "/")
	if !strings.Contains(strings.TrimSuffix(line, "/"), "/") {
		line = "**/" + line
	}
	return neg + "/" + prefix + "/" + line
}

// Scan scans root with default options.
func Scan(root string) ([]FileInfo, error) {
	return New(DefaultOptions()).Scan(root)
}
