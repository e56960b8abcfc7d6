package scripts

import (
	"regexp"
	"strings"
)

// defPattern matches top-level python-style function definitions. Indented
// definitions (methods, closures) are intentionally excluded; only module
// level callables are exposed.
var defPattern = regexp.MustCompile(`(?m)^(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)

// jsPattern matches top-level javascript function declarations, with or
// without export/async modifiers.
var jsPattern = regexp.MustCompile(`(?m)^(?:export[ \t]+)?(?:async[ \t]+)?function[ \t]+([A-Za-z_$]\w*)[ \t]*\(`)

// ParseCallables extracts the callables a script source exposes. Identifiers
// starting with an underscore are treated as private and skipped.
func ParseCallables(module string, source []byte) []*Callable {
	text := string(source)
	var out []*Callable
	seen := make(map[string]bool)

	collect := func(pattern *regexp.Regexp) {
		for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
			name := text[match[2]:match[3]]
			if strings.HasPrefix(name, "_") || seen[name] {
				continue
			}
			seen[name] = true
			// match[1] is the end of the full match, i.e. just past "(".
			params := parseParams(scanParamList(text, match[1]))
			out = append(out, &Callable{
				Module:   module,
				Function: name,
				Params:   params,
			})
		}
	}
	collect(defPattern)
	collect(jsPattern)
	return out
}

// scanParamList returns the raw text between the opening parenthesis at
// offset-1 and its matching close, tolerating nested parentheses and string
// literals in default values.
func scanParamList(text string, offset int) string {
	depth := 1
	for i := offset; i < len(text); i++ {
		switch text[i] {
		case '\'', '"':
			i = skipString(text, i)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[offset:i]
			}
		}
	}
	return text[offset:]
}

// splitTopLevel splits raw at commas that are not nested inside parentheses,
// brackets or string literals, so defaults like "(1, 2)" or "a, b" stay in
// one piece.
func splitTopLevel(raw string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\'', '"':
			i = skipString(raw, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, raw[start:])
}

// skipString returns the index of the quote closing the string literal that
// opens at position i, honouring backslash escapes. An unterminated literal
// consumes the rest of the input.
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}

// parseParams reduces a raw parameter list to bare parameter names, dropping
// type annotations, default values and variadic markers.
func parseParams(raw string) []string {
	var params []string
	for _, part := range splitTopLevel(raw) {
		name := strings.TrimSpace(part)
		if name == "" || strings.HasPrefix(name, "*") {
			continue
		}
		if idx := strings.IndexAny(name, ":="); idx != -1 {
			name = strings.TrimSpace(name[:idx])
		}
		if name == "" || name == "self" {
			continue
		}
		params = append(params, name)
	}
	return params
}
