// Package matcher implements the pattern semantics shared by CLI listing
// commands: "*" matches everything, anything else is a prefix match against
// the registry identifier or import path.
package matcher

import "strings"

// Match reports whether name satisfies pattern.
func Match(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == "" {
		return false
	}
	return strings.HasPrefix(name, pattern)
}

// Filter returns the names matching pattern, preserving order. An empty
// pattern is treated as "*" so that listing commands default to everything.
func Filter(pattern string, names []string) []string {
	if pattern == "" {
		pattern = "*"
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if Match(pattern, name) {
			out = append(out, name)
		}
	}
	return out
}
