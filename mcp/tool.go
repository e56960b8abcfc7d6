package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/viant/jsonrpc"
	mcpschema "github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"

	"github.com/scriptling/scriptling-mcp/internal/conv"
)

// defaultToolTimeout bounds a single script invocation triggered over MCP.
const defaultToolTimeout = 5 * time.Minute

// Tools returns server-protocol entries for every registered tool plus the
// built-in prompt accessor tools, ordered by name.
func (s *Service) Tools() serverproto.Tools {
	registrations := s.sortedTools()
	result := make(serverproto.Tools, 0, len(registrations)+2)
	for _, registration := range registrations {
		result = append(result, s.toolEntry(registration))
	}
	for _, builtin := range s.builtinTools() {
		if s.tools.Has(builtin.Metadata.Name) {
			continue // configured tool takes precedence over a builtin
		}
		result = append(result, builtin)
	}
	return result
}

// LookupTool returns the server-protocol entry for one registered tool.
func (s *Service) LookupTool(name string) (*serverproto.ToolEntry, error) {
	registration, ok := s.tools.Get(name)
	if !ok {
		for _, builtin := range s.builtinTools() {
			if builtin.Metadata.Name == name {
				return builtin, nil
			}
		}
		return nil, fmt.Errorf("unknown tool: %v", name)
	}
	return s.toolEntry(registration), nil
}

// toolEntry converts a registration into an MCP tool definition whose handler
// invokes the bound script callable.
func (s *Service) toolEntry(registration *ToolRegistration) *serverproto.ToolEntry {
	entry := &serverproto.ToolEntry{
		Metadata: mcpschema.Tool{
			Name:        registration.ID,
			Description: conv.Pointer(registration.Entry.Description),
			InputSchema: callableInputSchema(registration.Callable.Params),
		},
	}
	entry.Handler = func(ctx context.Context, request *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		output, err := s.ExecuteTool(ctx, request.Params.Name, request.Params.Arguments, defaultToolTimeout)
		res := &mcpschema.CallToolResult{}
		if err != nil {
			res.IsError = conv.Pointer(true)
			res.Content = append(res.Content, mcpschema.CallToolResultContentElem{
				Type: "text",
				Text: err.Error(),
			})
			return res, nil
		}
		res.Content = append(res.Content, mcpschema.CallToolResultContentElem{
			Type: "text",
			Text: renderOutput(output),
		})
		return res, nil
	}
	return entry
}

// ExecuteTool invokes a registered tool's script callable with the supplied
// arguments.
func (s *Service) ExecuteTool(ctx context.Context, name string, args map[string]interface{}, timeout time.Duration) (interface{}, error) {
	registration, ok := s.tools.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %v", name)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.invoker.Invoke(ctx, registration.Callable, args)
}

// callableInputSchema derives a permissive object schema from the callable's
// parameter names. Scripts are untyped, so parameters carry no constraints.
func callableInputSchema(params []string) mcpschema.ToolInputSchema {
	schema := mcpschema.ToolInputSchema{Type: "object"}
	if len(params) == 0 {
		return schema
	}
	schema.Properties = make(map[string]map[string]interface{}, len(params))
	for _, param := range params {
		schema.Properties[param] = map[string]interface{}{}
	}
	return schema
}

func renderOutput(output interface{}) string {
	switch actual := output.(type) {
	case nil:
		return ""
	case string:
		return actual
	case []byte:
		return string(actual)
	default:
		data, _ := json.Marshal(actual)
		return string(data)
	}
}
