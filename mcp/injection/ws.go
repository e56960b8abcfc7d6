package injection

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// hub tracks connected websocket clients and fans out broadcasts.
type hub struct {
	logger *zap.Logger
	mu     sync.Mutex
	conns  map[*wsConn]bool
	closed bool
}

// wsConn serialises writes to a single websocket connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}

func newHub(logger *zap.Logger) *hub {
	return &hub{logger: logger, conns: make(map[*wsConn]bool)}
}

func (h *hub) add(conn *wsConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = true
	return true
}

func (h *hub) remove(conn *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *hub) broadcast(payload wsResponse) {
	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		if err := conn.writeJSON(payload); err != nil {
			h.logger.Debug("websocket broadcast failed", zap.Error(err))
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.conn.Close()
	}
	h.conns = make(map[*wsConn]bool)
}

var upgrader = websocket.Upgrader{
	// The injection surface binds to localhost; cross-origin checks add
	// nothing here.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebsocket upgrades the connection and serves typed update/query
// messages until the client disconnects. Registry change events are pushed
// to every connected client.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &wsConn{conn: raw}
	if !s.hub.add(conn) {
		_ = raw.Close()
		return
	}
	defer func() {
		s.hub.remove(conn)
		_ = raw.Close()
	}()

	for {
		var msg wsMessage
		if err := raw.ReadJSON(&msg); err != nil {
			return
		}
		s.serveWsMessage(r, conn, &msg)
	}
}

func (s *Server) serveWsMessage(r *http.Request, conn *wsConn, msg *wsMessage) {
	respond := func(resp wsResponse) {
		resp.RequestID = msg.RequestID
		if err := conn.writeJSON(resp); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
		}
	}

	switch msg.Type {
	case "update":
		var req ConfigUpdateRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				respond(wsResponse{Type: "error", Message: "unable to parse update payload"})
				return
			}
		}
		result := s.applyUpdate(r, &req)
		resp := wsResponse{Type: "success", Data: result}
		if result.Summary["error"] > 0 {
			resp.Type = "error"
			resp.Message = "one or more components failed"
		}
		respond(resp)
	case "query":
		modules := s.svc.Store().Modules()
		scripts := make([]string, 0, len(modules))
		for _, module := range modules {
			scripts = append(scripts, module.Name)
		}
		respond(wsResponse{Type: "success", Data: ComponentListing{
			Scripts: scripts,
			Tools:   s.svc.ToolNames(),
			Prompts: s.svc.PromptNames(),
		}})
	default:
		respond(wsResponse{Type: "error", Message: "unknown message type: " + msg.Type})
	}
}
