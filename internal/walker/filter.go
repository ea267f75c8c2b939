package walker

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".codetint",
	".quarto",
	".DS_Store",
}

// shouldExcludeDir reports whether a rendered site's directory holds tool or
// VCS state rather than pages. Names compare case-insensitively.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude reports whether a page path is selected by the include
// globs. No globs selects every page.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude reports whether a page path is dropped by the exclude
// globs. No globs drops nothing.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny tests a page against globs in slash form. A glob without a
// directory part, such as "*.htm", also matches the page's file name at any
// depth.
func matchesAny(relPath string, patterns []string) bool {
	page := filepath.ToSlash(relPath)
	candidates := []string{page}
	if name := path.Base(page); name != page {
		candidates = append(candidates, name)
	}

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		for _, c := range candidates {
			if ok, err := doublestar.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
