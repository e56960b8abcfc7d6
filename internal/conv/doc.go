// Package conv provides small helpers to convert between arbitrary Go values.
// ToMap performs a best-effort JSON marshal/unmarshal round-trip which is
// sufficient for coercing tool and prompt arguments; Pointer and Dereference
// bridge between value and optional-pointer representations used by the MCP
// schema types.
package conv
