// Package api exposes the editing session over a loopback REST/WebSocket server so
// scripts and render pipelines can drive the app.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/dixieflatline76/Realist/util/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/netutil"
)

const writeWait = 5 * time.Second

// maxConnections caps simultaneous connections; uploads are held in memory.
const maxConnections = 32

// Server represents the local REST/WebSocket server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	addr       string
	gatherer   prometheus.Gatherer

	session     *session.Session
	unsubscribe func()

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	// Render folders, name -> absPath
	namespaces map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithGatherer sets the metrics source served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer creates a server driving sess. Every session change is broadcast to
// WebSocket clients until Stop.
func NewServer(sess *session.Session, opts ...Option) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		addr: config.DefaultAPIAddr,
		upgrader:   websocket.Upgrader{CheckOrigin: localOrigin},
		gatherer:   prometheus.DefaultGatherer,
		session:    sess,
		clients:    make(map[*websocket.Conn]bool),
		namespaces: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = sess.OnChange(func(st session.State) {
		s.broadcast(stateMessage(st))
	})
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/status", s.enableCORS(s.handleStatus))
	s.mux.HandleFunc("/source", s.enableCORS(s.handleSource))
	s.mux.HandleFunc("/enhance", s.enableCORS(s.handleEnhance))
	s.mux.HandleFunc("/filter", s.enableCORS(s.handleFilter))
	s.mux.HandleFunc("/export", s.enableCORS(s.handleExport))
	s.mux.HandleFunc("/local/", s.enableCORS(s.handleLocal))
	s.mux.Handle("/metrics", s.metricsHandler())
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// RegisterNamespace exposes a render output directory under /local/{name}.
func (s *Server) RegisterNamespace(name, path string) {
	s.namespaces[name] = path
}

// localOrigin accepts requests without an Origin header and requests from pages served
// by this machine.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// enableCORS rejects foreign origins and adds CORS headers for local ones.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !localOrigin(r) {
			log.Printf("API: rejected %s %s from origin %q", r.Method, r.URL.Path, r.Header.Get("Origin"))
			http.Error(w, "Origin not allowed", http.StatusForbidden)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and serves until Stop. It blocks.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop. It blocks.
func (s *Server) Serve(ln net.Listener) error {
	ln = netutil.LimitListener(ln, maxConnections)
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Local API listening on %s", ln.Addr())
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down and stops following the session.
func (s *Server) Stop(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// broadcast sends msg to all connected clients, dropping the ones that fail.
func (s *Server) broadcast(msg any) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for client := range s.clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}
