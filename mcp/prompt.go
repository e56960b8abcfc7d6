package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/jsonrpc"
	mcpschema "github.com/viant/mcp-protocol/schema"
	serverproto "github.com/viant/mcp-protocol/server"

	"github.com/scriptling/scriptling-mcp/internal/conv"
)

// PromptDescriptor is the listing shape served by the prompts-list builtin.
type PromptDescriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ImportPath  string   `json:"import_path"`
	Arguments   []string `json:"arguments,omitempty"`
}

// PromptDescriptors returns metadata for every registered prompt ordered by
// identifier.
func (s *Service) PromptDescriptors() []PromptDescriptor {
	registrations := s.sortedPrompts()
	out := make([]PromptDescriptor, 0, len(registrations))
	for _, registration := range registrations {
		out = append(out, PromptDescriptor{
			ID:          registration.ID,
			Name:        registration.Entry.Name,
			Description: registration.Entry.Description,
			ImportPath:  registration.Entry.ImportPath,
			Arguments:   registration.Callable.Params,
		})
	}
	return out
}

// RenderPrompt invokes the prompt's script callable and coerces the result to
// text.
func (s *Service) RenderPrompt(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	registration, ok := s.prompts.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown prompt: %v", name)
	}
	output, err := s.invoker.Invoke(ctx, registration.Callable, args)
	if err != nil {
		return "", err
	}
	return renderOutput(output), nil
}

// builtinTools exposes the prompt registry over the tool surface, mirroring
// how discovery endpoints are served as callable tools.
func (s *Service) builtinTools() serverproto.Tools {
	listEntry := &serverproto.ToolEntry{
		Metadata: mcpschema.Tool{
			Name:        "prompts-list",
			Description: conv.Pointer("List registered prompts with their argument names"),
			InputSchema: mcpschema.ToolInputSchema{Type: "object"},
		},
	}
	listEntry.Handler = func(ctx context.Context, request *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		data, err := json.Marshal(s.PromptDescriptors())
		if err != nil {
			return nil, jsonrpc.NewError(jsonrpc.InternalError, err.Error(), nil)
		}
		return textResult(string(data)), nil
	}

	getEntry := &serverproto.ToolEntry{
		Metadata: mcpschema.Tool{
			Name:        "prompts-get",
			Description: conv.Pointer("Render a registered prompt by name"),
			InputSchema: mcpschema.ToolInputSchema{
				Type: "object",
				Properties: map[string]map[string]interface{}{
					"name":      {"type": "string"},
					"arguments": {"type": "object"},
				},
				Required: []string{"name"},
			},
		},
	}
	getEntry.Handler = func(ctx context.Context, request *mcpschema.CallToolRequest) (*mcpschema.CallToolResult, *jsonrpc.Error) {
		name, _ := request.Params.Arguments["name"].(string)
		if name == "" {
			return nil, jsonrpc.NewError(jsonrpc.InvalidParams, "name is required", nil)
		}
		args, err := conv.ToMap(request.Params.Arguments["arguments"])
		if err != nil {
			return nil, jsonrpc.NewError(jsonrpc.InvalidParams, err.Error(), nil)
		}
		rendered, err := s.RenderPrompt(ctx, name, args)
		if err != nil {
			res := textResult(err.Error())
			res.IsError = conv.Pointer(true)
			return res, nil
		}
		return textResult(rendered), nil
	}

	return serverproto.Tools{listEntry, getEntry}
}

func textResult(text string) *mcpschema.CallToolResult {
	return &mcpschema.CallToolResult{Content: []mcpschema.CallToolResultContentElem{{
		Type: "text",
		Text: text,
	}}}
}
