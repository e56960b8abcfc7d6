package injection

import (
	"encoding/json"

	"github.com/scriptling/scriptling-mcp/mcp/config"
)

// Component types reported in responses.
const (
	componentTool   = "tool"
	componentPrompt = "prompt"
	componentScript = "script"
)

// ComponentResponse reports the outcome of a single component operation.
type ComponentResponse struct {
	Status        string `json:"status"` // success | error
	Message       string `json:"message"`
	ComponentType string `json:"component_type"`
	Name          string `json:"name"`
}

// ConfigUpdateRequest is a partial configuration document applied to the
// running service. ReplaceExisting defaults to true, matching the registry
// semantics of the inject endpoints.
type ConfigUpdateRequest struct {
	Scripts         []string                       `json:"scripts,omitempty"`
	Tools           map[string]*config.ToolEntry   `json:"tools,omitempty"`
	Prompts         map[string]*config.PromptEntry `json:"prompts,omitempty"`
	ReplaceExisting *bool                          `json:"replace_existing,omitempty"`
}

// Replace resolves the ReplaceExisting default.
func (r *ConfigUpdateRequest) Replace() bool {
	if r.ReplaceExisting == nil {
		return true
	}
	return *r.ReplaceExisting
}

// BulkUpdateResponse aggregates per-component outcomes of a config update.
type BulkUpdateResponse struct {
	Results []ComponentResponse `json:"results"`
	Summary map[string]int      `json:"summary"`
}

// ComponentListing is the response of GET /components.
type ComponentListing struct {
	Scripts []string `json:"scripts"`
	Tools   []string `json:"tools"`
	Prompts []string `json:"prompts"`
}

// wsMessage is the inbound websocket message format.
type wsMessage struct {
	Type      string          `json:"type"` // update | query
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// wsResponse is the outbound websocket message format. Registry change
// events are broadcast with type "update".
type wsResponse struct {
	Type      string      `json:"type"` // success | error | update
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Message   string      `json:"message,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
