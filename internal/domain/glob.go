package domain

import "github.com/bmatcuk/doublestar/v4"

// MatchAny reports whether path matches any of the given glob patterns.
// Patterns follow doublestar's shell-style syntax (including "**"), which
// path/filepath.Match cannot express.
func MatchAny(patterns []string, candidatePath string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		ok, err := doublestar.Match(pattern, candidatePath)
		if err == nil && ok {
			return true
		}
	}
	return false
}
