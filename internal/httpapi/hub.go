package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/core"
)

const (
	writeWait      = 5 * time.Second
	clientQueueLen = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Message is what websocket clients receive for every committed transition
// or failed operation.
type Message struct {
	Type       string                 `json:"type"`
	Transition *core.TransitionRecord `json:"transition,omitempty"`
	Op         core.Op                `json:"op,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Hub fans transition records out to websocket clients. It is a
// core.Observer; slow clients drop messages rather than block the router.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	logger  *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *Hub) OnTransition(ctx context.Context, rec core.TransitionRecord) {
	h.broadcast(Message{Type: "transition", Transition: &rec, Op: rec.Op})
}

func (h *Hub) OnError(ctx context.Context, op core.Op, err error) {
	h.broadcast(Message{Type: "error", Op: op, Error: err.Error()})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("marshal websocket message", zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropping message for slow websocket client")
		}
	}
}

// ServeWS upgrades the request and streams messages until the client
// disconnects or the hub closes.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade the websocket", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, clientQueueLen), done: make(chan struct{})}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.String("remote", c.Request.RemoteAddr))

	go h.writePump(cl)

	// Reads only detect disconnects; inbound messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(cl)
	<-cl.done
	h.logger.Debug("websocket client disconnected")
}

func (h *Hub) writePump(cl *client) {
	defer close(cl.done)
	defer cl.conn.Close()
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(cl)
			// drain until remove closes the channel
			for range cl.send {
			}
			return
		}
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Close disconnects every client. Later connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.closed = true
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}
