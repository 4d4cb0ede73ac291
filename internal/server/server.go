package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/b0ase/path402/apps/mcstatus/internal/monitor"
	"github.com/b0ase/path402/apps/mcstatus/internal/presenter"
	"github.com/b0ase/path402/apps/mcstatus/internal/provider"
)

// StatusSource provides daemon state and actions for the API.
type StatusSource interface {
	Version() string
	Uptime() time.Duration
	State() monitor.State
	View() presenter.View
	LastNotification() (presenter.Note, bool)
	Addresses() presenter.Addresses
	Target() provider.Target
	Providers() []provider.Adapter
	PollInterval() time.Duration
	FailureThreshold() int
	Refresh() bool
	SimulateOnline(players int, pingMS float64) monitor.State
	SimulateOffline() monitor.State
}

// corsMiddleware allows the status page to be embedded on other sites.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Server is the HTTP API and status page.
type Server struct {
	httpSrv *http.Server
	source  StatusSource
	metrics http.Handler
	bind    string
	port    int
}

// New creates an HTTP server. metrics may be nil to leave /metrics unmounted.
func New(bind string, port int, source StatusSource, metrics http.Handler) *Server {
	s := &Server{source: source, metrics: metrics, bind: bind, port: port}
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return corsMiddleware(mux)
}

// Start pre-acquires the port and begins serving HTTP requests.
// If the primary port is in use, it falls back to port+1.
// Returns the actual port bound.
func (s *Server) Start() (int, error) {
	addr := fmt.Sprintf("%s:%d", s.bind, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fallbackPort := s.port + 1
		fallbackAddr := fmt.Sprintf("%s:%d", s.bind, fallbackPort)
		ln, err = net.Listen("tcp", fallbackAddr)
		if err != nil {
			return 0, fmt.Errorf("listen on %s and fallback %s: %w", addr, fallbackAddr, err)
		}
		log.Printf("[api] WARNING: Using fallback port %d (primary %d was in use)", fallbackPort, s.port)
		s.port = fallbackPort
	}
	if s.port == 0 {
		s.port = ln.Addr().(*net.TCPAddr).Port
	}

	log.Printf("[api] Status page on http://%s:%d", s.bind, s.port)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()
	return s.port, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.httpSrv.Shutdown(ctx)
	log.Println("[api] HTTP server stopped")
}
