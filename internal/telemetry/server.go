package telemetry

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"warehouse-sim/internal/sim"
)

const (
	writeWait      = 1 * time.Second
	broadcastEvery = 1 // ticks between websocket pushes
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server serves the read-only fleet snapshot (spec.md §6) over plain HTTP
// (GET /snapshot) and pushes it to any connected websocket client
// (GET /ws) once per tick. It reads World under World's own
// RLock rather than assuming single-threaded access, because it runs
// concurrently with the simulation's tick goroutine — the one place this
// codebase departs from the otherwise strictly sequential model in spec.md
// §5, the same way the teacher's view_ebiten.go is a second, asynchronous
// observer of World.
type Server struct {
	addr  string
	log   *slog.Logger
	world *sim.World

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

// NewServer constructs a telemetry server bound to addr, observing world.
func NewServer(addr string, world *sim.World, log *slog.Logger) *Server {
	return &Server{
		addr:    addr,
		log:     log,
		world:   world,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// NotifyTick is called by the simulation driver after each Step, so the
// server can push the new snapshot to connected websocket clients.
func (s *Server) NotifyTick() {
	s.world.RLock()
	tick := s.world.CurrentTick()
	s.world.RUnlock()
	if tick%broadcastEvery != 0 {
		return
	}
	s.broadcast(s.snapshotLocked())
}

func (s *Server) snapshotLocked() FleetSnapshot {
	s.world.RLock()
	defer s.world.RUnlock()
	return BuildSnapshot(s.world)
}

// Router builds the HTTP handler tree: GET /snapshot for a one-shot poll,
// GET /ws for a push stream, GET /healthz for liveness checks.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving the telemetry HTTP/websocket endpoints.
func (s *Server) ListenAndServe() error {
	if s.log != nil {
		s.log.Info("telemetry server listening", "addr", s.addr)
	}
	return http.ListenAndServe(s.addr, s.Router())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.snapshotLocked()); err != nil && s.log != nil {
		s.log.Warn("snapshot encode failed", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.log != nil {
			s.log.Warn("websocket upgrade failed", "error", err)
		}
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	// Push the current state immediately so a late-joining client doesn't
	// wait for the next tick boundary.
	_ = s.writeSnapshot(conn, s.snapshotLocked())

	// A read goroutine is required so gorilla/websocket services control
	// frames (close, ping/pong); this connection only ever receives pushes.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	_ = conn.Close()
}

func (s *Server) broadcast(snapshot FleetSnapshot) {
	s.clientsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.clientsMu.Unlock()

	for _, conn := range conns {
		if err := s.writeSnapshot(conn, snapshot); err != nil {
			s.dropClient(conn)
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, snapshot FleetSnapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snapshot)
}
