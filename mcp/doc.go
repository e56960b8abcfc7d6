// Package mcp wires the script-backed prompt/tool registry to the MCP
// protocol implementation.  Its central Service type loads configuration,
// fetches and indexes the configured scripts, resolves every import path to a
// callable and can expose the resulting registry over an MCP server.
package mcp
