// Package introspect streams per-commit snapshots of the visited nodes'
// results and point counts, plus the total vertex count, to connected
// debug clients over WebSocket; no vertex data is sent (spec
// §13 supplements the distilled spec with a live introspection surface
// for external tooling, grounded on the teacher's WebSocket server
// module). One broadcast per commit, never per mutation: the server
// only ever sees the result of a finished commit-solve-plot cycle, so
// there is nothing to race against the control thread.
package introspect

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"geoengine/internal/dag"
	"geoengine/internal/plot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client wraps one connected debug socket with its own write mutex,
// since gorilla/websocket forbids concurrent writers on one connection
// (spec grounded on the teacher's WebSocketConn.mu pattern).
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("introspect: client connection is closed")
	}
	return c.conn.WriteJSON(v)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// Server accepts debug-client connections and broadcasts a Snapshot
// after every commit. It is the sole writer of the node pool's visual
// state that ever leaves the process.
type Server struct {
	mu      sync.RWMutex
	clients map[string]*client
	nextID  uint64

	httpServer *http.Server
}

func NewServer() *Server {
	return &Server{clients: make(map[string]*client)}
}

// NodeSnapshot is one active render-capable node's visible state,
// serialised for a debug client.
type NodeSnapshot struct {
	ID     dag.NodeID `json:"id"`
	Render string     `json:"render_type"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	R      float64    `json:"r"`
	Valid  bool       `json:"valid"`
	Points int        `json:"point_count"`
}

// Snapshot is one broadcast message: the frame's visited nodes with
// their results and point counts, plus the vertex buffer's current
// length. It carries no buffer offsets or vertices.
type Snapshot struct {
	Frame  uint64         `json:"frame"`
	Nodes  []NodeSnapshot `json:"nodes"`
	Total  int            `json:"total_vertices"`
}

// BuildSnapshot turns a frame's visited node list plus the committed
// buffer into a Snapshot, to be broadcast after every commit.
func BuildSnapshot(frame uint64, pool *dag.Pool, visited []dag.NodeID, buf *plot.Buffer) Snapshot {
	snap := Snapshot{Frame: frame, Total: buf.Len()}
	for _, id := range visited {
		n := pool.Node(id)
		if n == nil {
			continue
		}
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:     id,
			Render: renderTypeName(n.RenderType),
			X:      n.Result.X,
			Y:      n.Result.Y,
			R:      n.Result.R,
			Valid:  n.Result.IsValid,
			Points: n.CurrentPointCount,
		})
	}
	return snap
}

func renderTypeName(t dag.RenderType) string {
	switch t {
	case dag.RenderScalar:
		return "scalar"
	case dag.RenderPoint:
		return "point"
	case dag.RenderLine:
		return "line"
	case dag.RenderCircle:
		return "circle"
	case dag.RenderExplicit:
		return "explicit"
	case dag.RenderParametric:
		return "parametric"
	case dag.RenderImplicit:
		return "implicit"
	case dag.RenderText:
		return "text"
	default:
		return "none"
	}
}

// ServeHTTP upgrades the request to a WebSocket and registers the
// connection until it disconnects or a write fails.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("debug-%d", s.nextID)
	s.clients[id] = c
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		c.close()
	}()

	// Debug clients are read-only observers; drain and discard any
	// inbound frames so pings/pongs and close frames are still handled
	// by the gorilla/websocket library's read loop.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends snap to every connected client, dropping (and
// unregistering) any whose write fails (spec grounded on the teacher's
// WebSocketBroadcast).
func (s *Server) Broadcast(snap Snapshot) {
	s.mu.RLock()
	clients := make(map[string]*client, len(s.clients))
	for id, c := range s.clients {
		clients[id] = c
	}
	s.mu.RUnlock()

	var dead []string
	for id, c := range clients {
		if err := c.send(snap); err != nil {
			dead = append(dead, id)
		}
	}
	if len(dead) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range dead {
		delete(s.clients, id)
	}
	s.mu.Unlock()
}

// ListenAndServe starts the debug HTTP server on addr, mounting s at
// /debug.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/debug", s)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}
