package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/webdisplay/internal/config"
	"github.com/vango-dev/webdisplay/internal/engine/lorca"
	"github.com/vango-dev/webdisplay/pkg/webwin"
)

// session is the process-wide default manager and what it needs torn down.
type session struct {
	manager  *webwin.Manager
	engine   *lorca.Engine
	registry *prometheus.Registry
}

// newSession builds the default manager with the lorca engine registered.
func newSession(cfg config.Lookup, batch bool) *session {
	registry := prometheus.NewRegistry()
	engine := lorca.New(nil)

	m := webwin.New(webwin.Options{
		Config:     cfg,
		Engines:    webwin.NewEngineRegistry(engine),
		Metrics:    webwin.NewMetrics(webwin.WithRegistry(registry)),
		ForceBatch: batch,
	})
	return &session{manager: m, engine: engine, registry: registry}
}

// serveMetrics exposes the manager metrics on addr until ctx is done.
func (s *session) serveMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			warn("metrics server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	info("metrics on http://%s/metrics", addr)
}

// close halts spawned clients, closes engine windows and stops the server.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.manager.Terminate(ctx); err != nil {
		warn("shutdown: %v", err)
	}
	if err := s.engine.Close(); err != nil {
		warn("closing engine windows: %v", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
