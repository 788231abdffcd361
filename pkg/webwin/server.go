package webwin

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the embedded HTTP/WebSocket server shared by all windows of a
// manager. It exists before any network listener: an unbound Server can
// still be driven in-process through ServeHTTP.
type Server struct {
	base   string
	router chi.Router
	logger *slog.Logger

	mu        sync.RWMutex
	endpoints map[string]http.Handler

	httpServer *http.Server
	listener   net.Listener
	spec       EngineSpec
	bound      bool
	terminated atomic.Bool

	// listen is swapped in tests to simulate busy ports.
	listen func(network, address string) (net.Listener, error)
}

func newServer(base string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		base:      base,
		logger:    logger.With("component", "server"),
		endpoints: make(map[string]http.Handler),
		listen:    net.Listen,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/"+base+"/{endpoint}", func(w http.ResponseWriter, req *http.Request) {
		target := req.URL.Path + "/"
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		http.Redirect(w, req, target, http.StatusMovedPermanently)
	})
	r.HandleFunc("/"+base+"/{endpoint}/*", s.dispatch)
	s.router = r

	return s
}

// Base returns the URL path segment all window endpoints live under.
func (s *Server) Base() string {
	return s.base
}

// Register binds handler to endpoint name, replacing any previous handler.
func (s *Server) Register(name string, handler http.Handler) {
	s.mu.Lock()
	s.endpoints[name] = handler
	s.mu.Unlock()
}

// Unregister removes the endpoint. It reports whether the endpoint existed.
func (s *Server) Unregister(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.endpoints[name]; !ok {
		return false
	}
	delete(s.endpoints, name)
	return true
}

// Endpoint returns the handler registered under name.
func (s *Server) Endpoint(name string) (http.Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.endpoints[name]
	return h, ok
}

// NumEndpoints returns the number of registered endpoints.
func (s *Server) NumEndpoints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.endpoints)
}

// ServeHTTP serves requests in-process; the network listener uses it too.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "endpoint")
	h, ok := s.Endpoint(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.terminated.Load() {
		http.Error(w, "terminating", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %d\n", s.NumEndpoints())
}

// Listen binds a network listener for spec and starts serving on it.
func (s *Server) Listen(spec EngineSpec, tlsCfg *tls.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bound {
		return fmt.Errorf("server already listening on %s", s.listener.Addr())
	}

	ln, err := s.listen("tcp", spec.ListenAddr())
	if err != nil {
		return err
	}
	if tlsCfg != nil {
		ln = tls.NewListener(ln, tlsCfg)
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = srv
	s.listener = ln
	s.spec = spec
	s.bound = true

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Warn("http server stopped", "error", err)
		}
	}()

	return nil
}

// Bound reports whether a network listener is active.
func (s *Server) Bound() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bound
}

// ListenAddr returns the actual listener address, or "" when unbound.
func (s *Server) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// EngineSpec returns the spec of the active listener.
func (s *Server) EngineSpec() EngineSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// WSTimeout returns the WebSocket handshake timeout of the active listener,
// or the default when unbound.
func (s *Server) WSTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.spec.WSTimeout > 0 {
		return s.spec.WSTimeout
	}
	return defaultWSTimeout
}

// SetTerminate marks the server as terminating; health checks fail from
// now on.
func (s *Server) SetTerminate() {
	s.terminated.Store(true)
}

// Terminated reports whether SetTerminate was called.
func (s *Server) Terminated() bool {
	return s.terminated.Load()
}

// Shutdown gracefully stops the network listener, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
