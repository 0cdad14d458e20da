// Package filter expands the paths given to verify into the list of containers to check.
//
// Files named explicitly are always selected. Directories are walked recursively and
// their files kept when they match an include pattern and no exclude pattern.
package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ErrNoFiles is returned when the arguments select nothing.
var ErrNoFiles = errors.New("no files selected")

// Filter holds compiled include and exclude patterns. Excludes win over includes.
type Filter struct {
	includes []*regexp.Regexp
	excludes []*regexp.Regexp
}

// New compiles the patterns. An empty include list selects every file.
func New(includes, excludes []string) (*Filter, error) {
	inc, err := compileAll(includes)
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := compileAll(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc}, nil
}

// Match reports whether a slash-separated path is selected.
func (f *Filter) Match(path string) bool {
	included := len(f.includes) == 0 || matchAny(f.includes, path)

	return included && !matchAny(f.excludes, path)
}

// Resolve expands args into a deduplicated list of files in argument order.
// It returns the files and the number of candidates seen.
func (f *Filter) Resolve(args []string) (files []string, scanned int, err error) {
	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			files = append(files, arg)

			continue
		}

		walked, total, err := f.walk(arg)
		if err != nil {
			return nil, 0, err
		}

		scanned += total
		files = append(files, walked...)
	}

	files = dedupe(files)

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("%w: %d candidates in %v", ErrNoFiles, scanned, args)
	}

	return files, scanned, nil
}

// walk returns the files below root that pass the filter.
func (f *Filter) walk(root string) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		total++

		if f.Match(filepath.ToSlash(path)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := compileGlob(strings.TrimPrefix(p, "./"))
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, path string) bool {
	return slices.ContainsFunc(patterns, func(re *regexp.Regexp) bool {
		return re.MatchString(path)
	})
}

func dedupe(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	unique := files[:0]

	for _, file := range files {
		if _, ok := seen[file]; ok {
			continue
		}

		seen[file] = struct{}{}
		unique = append(unique, file)
	}

	return unique
}
