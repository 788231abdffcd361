package webwin

import (
	"context"
	"net/http"
	"sync"
)

// Embedded engine names with special handling.
const (
	EngineCEF = "cef"
	EngineQt5 = "qt5"
)

// Engine displays a window in-process instead of spawning a browser.
// Engines are optional: a host registers the ones it was built with.
type Engine interface {
	// Name is the launch tag that selects the engine and the tag recorded
	// for keys it launches.
	Name() string

	// Available reports whether the engine can run now (installation
	// found, libraries loadable).
	Available() bool

	// Headless reports whether the engine can display batch windows.
	Headless() bool

	// Launch shows the window. It must not block for the lifetime of
	// the display.
	Launch(ctx context.Context, req EngineRequest) error
}

// EngineRequest is what an engine receives from Show.
type EngineRequest struct {
	// Path is the local window URL including the session key.
	Path string

	Batch  bool
	Width  int
	Height int

	// Handler serves the embedded server in-process, for engines that
	// can route requests without a network listener.
	Handler http.Handler

	// InstallRoot is the application install root, when known.
	InstallRoot string

	// RemoteURL binds the network server if needed and returns the full
	// window URL, for engines that need a real socket.
	RemoteURL func(ctx context.Context) (string, error)
}

// EngineRegistry holds the engines available to a manager.
type EngineRegistry struct {
	mu      sync.RWMutex
	order   []string
	engines map[string]Engine
}

// NewEngineRegistry returns a registry holding engines.
func NewEngineRegistry(engines ...Engine) *EngineRegistry {
	r := &EngineRegistry{engines: make(map[string]Engine)}
	for _, e := range engines {
		r.Register(e)
	}
	return r
}

// Register adds or replaces an engine.
func (r *EngineRegistry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := e.Name()
	if _, ok := r.engines[name]; !ok {
		r.order = append(r.order, name)
	}
	r.engines[name] = e
}

// Lookup returns the engine registered under name.
func (r *EngineRegistry) Lookup(name string) (Engine, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[name]
	return e, ok
}

// Names returns registered engine names in registration order.
func (r *EngineRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Native returns the engine used for native display: cef, then qt5, then
// any other engine in registration order, skipping unavailable ones.
func (r *EngineRegistry) Native() (Engine, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range []string{EngineCEF, EngineQt5} {
		if e, ok := r.engines[name]; ok && e.Available() {
			return e, true
		}
	}
	for _, name := range r.order {
		if name == EngineCEF || name == EngineQt5 {
			continue
		}
		if e := r.engines[name]; e.Available() {
			return e, true
		}
	}
	return nil, false
}
