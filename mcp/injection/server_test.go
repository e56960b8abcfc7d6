package injection_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/scriptling/scriptling-mcp/mcp"
	"github.com/scriptling/scriptling-mcp/mcp/config"
	"github.com/scriptling/scriptling-mcp/mcp/injection"
	"github.com/scriptling/scriptling-mcp/mcp/scripts"
)

type stubInvoker struct{}

func (s *stubInvoker) Invoke(_ context.Context, callable *scripts.Callable, _ map[string]interface{}) (interface{}, error) {
	return "stub:" + callable.ImportPath().String(), nil
}

func writeScript(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestServer(t *testing.T) (*injection.Server, *mcp.Service, string) {
	t.Helper()
	dir := t.TempDir()
	helpers := writeScript(t, dir, "helpers.py", `
def greet(name):
    return "hello " + name

def shout(text):
    return text.upper()
`)
	cfg := &config.Config{
		GlobalSettings: config.GlobalSettings{
			Scripts:  []string{helpers},
			LogLevel: config.LogLevelError,
		},
		Tools: map[string]*config.ToolEntry{
			"greet": {ImportPath: "helpers.greet", Description: "Render a greeting"},
		},
	}
	svc, err := mcp.New(context.Background(),
		mcp.WithConfig(cfg),
		mcp.WithInvoker(&stubInvoker{}),
		mcp.WithScriptDir(filepath.Join(dir, "work")),
		mcp.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return injection.NewServer(svc, 0), svc, dir
}

func doJSON(t *testing.T, handler http.Handler, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestInjectConfig(t *testing.T) {
	server, svc, dir := newTestServer(t)
	extra := writeScript(t, dir, "extra.py", `
def ping():
    return "pong"
`)

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/inject-config", injection.ConfigUpdateRequest{
		Scripts: []string{extra},
		Tools: map[string]*config.ToolEntry{
			"ping": {ImportPath: "extra.ping", Description: "Health probe"},
		},
		Prompts: map[string]*config.PromptEntry{
			"shout": {
				Type:        config.PromptTypeFunction,
				Name:        "Shout",
				ImportPath:  "helpers.shout",
				Description: "Uppercase a text",
			},
		},
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response injection.BulkUpdateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 3, response.Summary["success"])
	assert.Equal(t, 0, response.Summary["error"])
	assert.Equal(t, []string{"greet", "ping"}, svc.ToolNames())
	assert.Equal(t, []string{"shout"}, svc.PromptNames())
}

func TestInjectConfigUnresolved(t *testing.T) {
	server, svc, _ := newTestServer(t)

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/inject-config", injection.ConfigUpdateRequest{
		Tools: map[string]*config.ToolEntry{
			"broken": {ImportPath: "helpers.missing", Description: "Unbound"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response injection.BulkUpdateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, response.Summary["error"])
	assert.Equal(t, []string{"greet"}, svc.ToolNames())
}

func TestListComponents(t *testing.T) {
	server, _, _ := newTestServer(t)

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/components", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var listing injection.ComponentListing
	if err := json.Unmarshal(recorder.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"helpers"}, listing.Scripts)
	assert.Equal(t, []string{"greet"}, listing.Tools)
	assert.Empty(t, listing.Prompts)
}

func TestToolLifecycle(t *testing.T) {
	server, svc, _ := newTestServer(t)
	handler := server.Handler()

	recorder := doJSON(t, handler, http.MethodPost, "/tools/shout",
		&config.ToolEntry{ImportPath: "helpers.shout", Description: "Uppercase a text"})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"greet", "shout"}, svc.ToolNames())

	recorder = doJSON(t, handler, http.MethodDelete, "/tools/shout", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"greet"}, svc.ToolNames())

	recorder = doJSON(t, handler, http.MethodDelete, "/tools/shout", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPromptLifecycle(t *testing.T) {
	server, svc, _ := newTestServer(t)
	handler := server.Handler()

	recorder := doJSON(t, handler, http.MethodPost, "/prompts/shout", &config.PromptEntry{
		Type:        config.PromptTypeFunction,
		Name:        "Shout",
		ImportPath:  "helpers.shout",
		Description: "Uppercase a text",
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"shout"}, svc.PromptNames())

	recorder = doJSON(t, handler, http.MethodDelete, "/prompts/shout", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, svc.PromptNames())
}

func TestStartReportsBoundAddress(t *testing.T) {
	server, _, _ := newTestServer(t)
	assert.Equal(t, "localhost:0", server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = server.Start(ctx) }()

	// Addr switches to the listener's address once the port is bound.
	assert.Eventually(t, func() bool {
		return server.Addr() != "localhost:0"
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + server.Addr() + "/components")
	if err != nil {
		t.Fatalf("failed to reach injection server: %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, server.Stop(context.Background()))
}

type wsTestEnvelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Message   string          `json:"message,omitempty"`
}

func TestWebsocket(t *testing.T) {
	server, _, _ := newTestServer(t)
	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	readEnvelope := func() wsTestEnvelope {
		t.Helper()
		var envelope wsTestEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			t.Fatalf("failed to read websocket message: %v", err)
		}
		return envelope
	}

	if err := conn.WriteJSON(map[string]interface{}{"type": "query", "request_id": "q1"}); err != nil {
		t.Fatal(err)
	}
	envelope := readEnvelope()
	assert.Equal(t, "success", envelope.Type)
	assert.Equal(t, "q1", envelope.RequestID)

	var listing injection.ComponentListing
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []string{"greet"}, listing.Tools)

	update, err := json.Marshal(injection.ConfigUpdateRequest{
		Tools: map[string]*config.ToolEntry{
			"shout": {ImportPath: "helpers.shout", Description: "Uppercase a text"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]interface{}{
		"type":       "update",
		"data":       json.RawMessage(update),
		"request_id": "u1",
	}); err != nil {
		t.Fatal(err)
	}

	// The registry change is pushed to subscribers before the command reply.
	envelope = readEnvelope()
	assert.Equal(t, "update", envelope.Type)
	var event mcp.ChangeEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, mcp.ComponentTool, event.Component)
	assert.Equal(t, mcp.ChangeAdded, event.Change)
	assert.Equal(t, "shout", event.Name)

	envelope = readEnvelope()
	assert.Equal(t, "success", envelope.Type)
	assert.Equal(t, "u1", envelope.RequestID)

	if err := conn.WriteJSON(map[string]interface{}{"type": "rename", "request_id": "x1"}); err != nil {
		t.Fatal(err)
	}
	envelope = readEnvelope()
	assert.Equal(t, "error", envelope.Type)
	assert.Equal(t, fmt.Sprintf("unknown message type: %s", "rename"), envelope.Message)
}
