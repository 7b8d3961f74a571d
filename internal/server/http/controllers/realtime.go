package controllers

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nitishkumar0777/log-ingestor-system/internal/realtime"
	"github.com/nitishkumar0777/log-ingestor-system/internal/store"
	logpkg "github.com/nitishkumar0777/log-ingestor-system/pkg/log"
)

// RealtimeController serves the streaming endpoints: an SSE feed and a
// WebSocket with subscribe/unsubscribe control messages. Each connection
// gets a unique client ID and is detached when it goes away.
type RealtimeController struct {
	disp     *realtime.Dispatcher
	logger   logpkg.Logger
	upgrader websocket.Upgrader
}

// NewRealtimeController creates a new realtime controller.
func NewRealtimeController(disp *realtime.Dispatcher, logger logpkg.Logger) *RealtimeController {
	return &RealtimeController{
		disp:   disp,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers realtime routes with the given mux.
func (c *RealtimeController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/subscribe", c.handleSubscribeSSE)
	mux.HandleFunc("/ws", c.handleWebSocket)
}

// handleSubscribeSSE attaches the connection as an SSE subscriber. Filters
// come from query parameters; the optional "filter" parameter carries a CEL
// expression. The handler blocks until the client disconnects.
func (c *RealtimeController) handleSubscribeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	filters := filtersFromQuery(r)
	expr := r.URL.Query().Get("filter")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientID := uuid.NewString()
	t := &sseTransport{w: w, r: r}
	if err := c.disp.Attach(clientID, filters, expr, t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter expression: "+err.Error())
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	c.logger.Info("sse subscriber connected", logpkg.Str("client", clientID))

	<-r.Context().Done()
	c.disp.Detach(clientID)
	c.logger.Info("sse subscriber disconnected", logpkg.Str("client", clientID))
}

// wsTransport implements the realtime.Transport interface over a WebSocket
// connection. Writes are serialized; gorilla connections allow only one
// concurrent writer.
type wsTransport struct {
	conn *websocket.Conn
	ctx  context.Context

	mu sync.Mutex
}

func (t *wsTransport) Send(hits []store.Hit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteJSON(wsServerMessage{Type: "newLogs", Logs: hitsPayload(hits)})
}

func (t *wsTransport) Context() context.Context { return t.ctx }

func (t *wsTransport) writeError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.conn.WriteJSON(wsServerMessage{Type: "error", Error: msg})
}

// handleWebSocket upgrades the connection and runs its control loop. The
// client drives subscription state with {"action":"subscribe","filters":...}
// and {"action":"unsubscribe"} messages; the dispatcher pushes newLogs
// batches between them.
func (c *RealtimeController) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	clientID := uuid.NewString()
	t := &wsTransport{conn: conn, ctx: ctx}
	c.logger.Info("ws client connected", logpkg.Str("client", clientID))

	defer func() {
		c.disp.Detach(clientID)
		_ = conn.Close()
		c.logger.Info("ws client disconnected", logpkg.Str("client", clientID))
	}()

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Action {
		case "subscribe":
			if err := c.disp.Attach(clientID, msg.Filters, msg.Filter, t); err != nil {
				t.writeError("invalid filter expression: " + err.Error())
				continue
			}
		case "unsubscribe":
			c.disp.Detach(clientID)
		default:
			t.writeError("unknown action: " + msg.Action)
		}
	}
}
