package scripts

import (
	"fmt"
	"strings"
)

// ImportPath is a dotted reference to a callable exposed by a fetched script,
// e.g. "analysis.summarize". The segment after the last dot is the function
// name, everything before it the module.
type ImportPath string

func (p ImportPath) Module() string {
	path := string(p)
	if idx := strings.LastIndex(path, "."); idx != -1 {
		return path[:idx]
	}
	return ""
}

func (p ImportPath) Function() string {
	path := string(p)
	if idx := strings.LastIndex(path, "."); idx != -1 {
		return path[idx+1:]
	}
	return path
}

func (p ImportPath) String() string {
	return string(p)
}

// Validate checks the module.function shape. Each dotted segment must be a
// non-empty identifier (letters, digits and underscores, not starting with a
// digit).
func (p ImportPath) Validate() error {
	path := string(p)
	if path == "" {
		return fmt.Errorf("import path is empty")
	}
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return fmt.Errorf("import path %q must have module.function form", path)
	}
	for _, segment := range segments {
		if !isIdentifier(segment) {
			return fmt.Errorf("import path %q has invalid segment %q", path, segment)
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// NewImportPath builds an ImportPath from module and function parts.
func NewImportPath(module, function string) ImportPath {
	return ImportPath(module + "." + function)
}
