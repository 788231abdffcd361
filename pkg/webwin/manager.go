package webwin

import (
	"context"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/webdisplay/internal/config"
	"github.com/vango-dev/webdisplay/internal/errors"
	"github.com/vango-dev/webdisplay/internal/platform"
)

// InstallRootEnv names the variable read when Options.InstallRoot is empty.
const InstallRootEnv = "WEBDISPLAY_ROOT"

// Options configures a Manager. The zero value is usable.
type Options struct {
	// Config supplies the manager settings. Nil uses defaults only.
	Config config.Lookup

	// Platform spawns and kills display clients. Default: platform.Current().
	Platform platform.Platform

	// Engines holds the optional in-process engines.
	Engines *EngineRegistry

	// Metrics records manager activity. Nil records nothing.
	Metrics *Metrics

	// Tracer creates spans. Default: otel.Tracer("webdisplay").
	Tracer trace.Tracer

	// Logger is the parent logger. Default: slog.Default().
	Logger *slog.Logger

	// EventPump processes pending host events; WaitFor calls it between
	// predicate evaluations.
	EventPump func()

	// Rand returns a value in [0, n). Default: math/rand.
	Rand func(n int) int

	// Getenv reads environment variables. Default: os.Getenv.
	Getenv func(string) string

	// Listen opens network listeners. Default: net.Listen.
	Listen func(network, address string) (net.Listener, error)

	// DefaultDisplay is used by Show when where is empty. Overrides the
	// Display config key.
	DefaultDisplay string

	// ForceBatch makes every window headless. ORed with the Batch key.
	ForceBatch bool

	// BaseEndpoint is the URL segment of window endpoints. Overrides the
	// BaseEndpoint config key.
	BaseEndpoint string

	// InstallRoot is handed to engines. Default: $WEBDISPLAY_ROOT.
	InstallRoot string
}

// Manager creates the embedded server on demand, owns windows, and
// launches display clients for them.
type Manager struct {
	// mu guards server creation and the bind attempt.
	mu     sync.Mutex
	server *Server
	addr   string
	listen func(network, address string) (net.Listener, error)

	base           string
	config         config.Lookup
	logger         *slog.Logger
	metrics        *Metrics
	tracer         trace.Tracer
	platform       platform.Platform
	engines        *EngineRegistry
	supervisor     *Supervisor
	pump           func()
	rand           func(n int) int
	getenv         func(string) string
	defaultDisplay string
	forceBatch     bool
	installRoot    string

	nextID    atomic.Int64
	windowsMu sync.RWMutex
	windows   map[int]*Window
}

// New returns a manager configured by opts.
func New(opts Options) *Manager {
	m := &Manager{
		config:  opts.Config,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		engines: opts.Engines,
		pump:    opts.EventPump,
		rand:    opts.Rand,
		getenv:  opts.Getenv,
		listen:  opts.Listen,
		windows: make(map[int]*Window),
	}
	if m.config == nil {
		m.config = config.Values{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m.logger = logger.With("component", "webwin")

	if m.tracer == nil {
		m.tracer = otel.Tracer(defaultTracerName)
	}
	m.platform = opts.Platform
	if m.platform == nil {
		m.platform = platform.Current()
	}
	if m.engines == nil {
		m.engines = NewEngineRegistry()
	}
	if m.rand == nil {
		m.rand = rand.Intn
	}
	if m.getenv == nil {
		m.getenv = os.Getenv
	}

	m.base = opts.BaseEndpoint
	if m.base == "" {
		m.base = config.String(m.config, config.KeyBaseEndpoint, config.DefaultBaseEndpoint)
	}
	m.defaultDisplay = opts.DefaultDisplay
	if m.defaultDisplay == "" {
		m.defaultDisplay = config.String(m.config, config.KeyDisplay, "")
	}
	m.forceBatch = opts.ForceBatch || config.Bool(m.config, config.KeyBatch, false)
	m.installRoot = opts.InstallRoot
	if m.installRoot == "" {
		m.installRoot = m.getenv(InstallRootEnv)
	}

	m.supervisor = NewSupervisor(m.platform, logger, m.metrics)
	return m
}

// Engines returns the engine registry.
func (m *Manager) Engines() *EngineRegistry {
	return m.engines
}

// Supervisor returns the process supervisor.
func (m *Manager) Supervisor() *Supervisor {
	return m.supervisor
}

// Server returns the embedded server, or nil before it is created.
func (m *Manager) Server() *Server {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server
}

// Addr returns the bound scheme://host:port, or "" when unbound.
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// BaseEndpoint returns the URL segment window endpoints live under.
func (m *Manager) BaseEndpoint() string {
	return m.base
}

func (m *Manager) wsTimeout() time.Duration {
	if s := m.Server(); s != nil {
		return s.WSTimeout()
	}
	return defaultWSTimeout
}

// CreateWindow creates a window and registers its endpoint. The window is
// headless when batch is set or the manager forces batch mode.
func (m *Manager) CreateWindow(batch bool) *Window {
	m.mu.Lock()
	server := m.ensureHandleLocked()
	m.mu.Unlock()

	id := int(m.nextID.Add(1))
	win := newWindow(m, id, batch || m.forceBatch)

	m.windowsMu.Lock()
	m.windows[id] = win
	m.windowsMu.Unlock()

	server.Register(win.endpoint, win)
	m.metrics.windowCreated()
	m.logger.Debug("window created", "window", id, "batch", win.batch, "endpoint", win.endpoint)
	return win
}

// Window returns the live window with the given id.
func (m *Manager) Window(id int) (*Window, bool) {
	m.windowsMu.RLock()
	defer m.windowsMu.RUnlock()
	w, ok := m.windows[id]
	return w, ok
}

// Windows returns live windows ordered by id.
func (m *Manager) Windows() []*Window {
	m.windowsMu.RLock()
	list := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		list = append(list, w)
	}
	m.windowsMu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}

func (m *Manager) destroyWindow(w *Window) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.mu.Unlock()

	m.windowsMu.Lock()
	delete(m.windows, w.id)
	m.windowsMu.Unlock()

	if s := m.Server(); s != nil {
		s.Unregister(w.endpoint)
	}
	w.closeConns()
	m.metrics.windowDestroyed()
	m.logger.Debug("window destroyed", "window", w.id)
}

// windowURL builds the window URL; remote binds the network server.
func (m *Manager) windowURL(ctx context.Context, w *Window, remote bool) (string, error) {
	s := m.Server()
	if s == nil {
		return "", errors.New(errors.CodeServerNotReady)
	}
	if _, ok := s.Endpoint(w.endpoint); !ok {
		return "", errors.New(errors.CodeEndpointMissing).WithDetailf("window %d endpoint %s", w.id, w.endpoint)
	}

	local := w.path(m.base)
	if !remote {
		return local, nil
	}
	addr, err := m.EnsureServer(ctx, true)
	if err != nil {
		return "", err
	}
	return addr + local, nil
}

// Halt terminates the display client recorded under tag. Only "pid:<n>"
// tags kill anything; every other tag is ignored.
func (m *Manager) Halt(tag string) {
	m.supervisor.Halt(tag)
}

// Terminate marks the server as terminating, disconnects all clients,
// kills every spawned client and shuts the listener down.
func (m *Manager) Terminate(ctx context.Context) error {
	s := m.Server()
	if s != nil {
		s.SetTerminate()
	}

	for _, w := range m.Windows() {
		w.closeConns()
	}
	m.supervisor.HaltAll()

	if s == nil {
		return nil
	}
	return s.Shutdown(ctx)
}
