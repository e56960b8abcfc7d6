package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	viantmcp "github.com/viant/mcp"
	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"

	"github.com/scriptling/scriptling-mcp/mcp"
)

// newConnectedClient spins up an in-process MCP server backed by the service
// registry and returns a client connected to it.
func newConnectedClient(t *testing.T, svc *mcp.Service) mcpclient.Interface {
	t.Helper()
	srv, err := viantmcp.NewServer(svc.NewHandler, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	cli := srv.AsClient(context.Background())
	if _, err := cli.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize client: %v", err)
	}
	return cli
}

func TestServerListTools(t *testing.T) {
	svc := newTestService(t, &stubInvoker{})
	cli := newConnectedClient(t, svc)

	res, err := cli.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "analyze")
	assert.Contains(t, names, "prompts-list")
	assert.Contains(t, names, "prompts-get")
}

func TestServerCallTool(t *testing.T) {
	invoker := &stubInvoker{results: map[string]interface{}{
		"analysis.analyze": map[string]interface{}{"tokens": float64(7)},
	}}
	svc := newTestService(t, invoker)
	cli := newConnectedClient(t, svc)

	res, err := cli.CallTool(context.Background(), &mcpschema.CallToolRequestParams{
		Name:      "analyze",
		Arguments: mcpschema.CallToolRequestParamsArguments{"corpus": "a b c"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if assert.Len(t, res.Content, 1) {
		assert.JSONEq(t, `{"tokens":7}`, res.Content[0].Text)
	}
}

func TestServerPromptAccess(t *testing.T) {
	invoker := &stubInvoker{results: map[string]interface{}{
		"helpers.greet": func(args map[string]interface{}) interface{} {
			name, _ := args["name"].(string)
			return "hello " + name
		},
	}}
	svc := newTestService(t, invoker)
	cli := newConnectedClient(t, svc)

	res, err := cli.CallTool(context.Background(), &mcpschema.CallToolRequestParams{
		Name: "prompts-get",
		Arguments: mcpschema.CallToolRequestParamsArguments{
			"name":      "greet",
			"arguments": map[string]interface{}{"name": "ada"},
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if assert.Len(t, res.Content, 1) {
		assert.Equal(t, "hello ada", res.Content[0].Text)
	}

	listRes, err := cli.CallTool(context.Background(), &mcpschema.CallToolRequestParams{
		Name: "prompts-list",
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if assert.Len(t, listRes.Content, 1) {
		assert.Contains(t, listRes.Content[0].Text, `"id":"greet"`)
		assert.Contains(t, listRes.Content[0].Text, `"import_path":"helpers.greet"`)
	}
}
