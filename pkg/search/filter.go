package search

import (
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Filter narrows provider results. The regex uses search semantics (a
// match anywhere in the path passes); exclude patterns are doublestar globs
// matched against the slash-normalized path.
type Filter struct {
	re      *regexp.Regexp
	exclude []string
}

// 🏭 NewFilter compiles the filter once, up front. An invalid regex or glob
// here aborts the whole run before any search starts.
func NewFilter(expr string, exclude []string) (*Filter, error) {
	f := &Filter{exclude: exclude}

	if expr != "" {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Errorf("compiling regex filter: %w", err)
		}
		f.re = re
	}

	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return f, nil
}

// ✅ Match reports whether a found path passes the filter
func (f *Filter) Match(path string) bool {
	if f.re != nil && !f.re.MatchString(path) {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range f.exclude {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return false
		}
	}
	return true
}
