package config

import "fmt"

// Error is a schema validation failure pointing at the offending config
// field, e.g. "tools.analyze.import_path".
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "invalid config: " + e.Reason
	}
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// NewError builds an Error for the given field path.
func NewError(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}
