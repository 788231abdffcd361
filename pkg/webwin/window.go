package webwin

import (
	"context"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/webdisplay/internal/errors"
)

// Default client geometry used when a window has no explicit size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Window is one logical UI surface: an id, a WebSocket endpoint on the
// manager's server, and the session keys issued to display clients.
type Window struct {
	id       int
	batch    bool
	endpoint string
	mgr      *Manager

	mu        sync.Mutex
	width     int
	height    int
	keys      map[string]*launchRecord
	pending   map[string]struct{}
	conns     map[uint64]*websocket.Conn
	nextConn  uint64
	page      string
	destroyed bool

	// writeMu serializes Broadcast; gorilla connections allow one writer.
	writeMu sync.Mutex
}

// launchRecord remembers how the client holding a key was started.
type launchRecord struct {
	tag  string
	used bool
}

func newWindow(mgr *Manager, id int, batch bool) *Window {
	return &Window{
		id:       id,
		batch:    batch,
		endpoint: "w" + strconv.Itoa(id),
		mgr:      mgr,
		keys:     make(map[string]*launchRecord),
		pending:  make(map[string]struct{}),
		conns:    make(map[uint64]*websocket.Conn),
		page:     DefaultPage,
	}
}

// ID returns the window id; ids are never reused within a manager.
func (w *Window) ID() int {
	return w.id
}

// IsBatchMode reports whether the window is shown headless.
func (w *Window) IsBatchMode() bool {
	return w.batch
}

// Endpoint returns the endpoint name registered on the server.
func (w *Window) Endpoint() string {
	return w.endpoint
}

// Manager returns the manager that created the window.
func (w *Window) Manager() *Manager {
	return w.mgr
}

// SetGeometry sets the client size in pixels; 0 selects the default.
func (w *Window) SetGeometry(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

// Width returns the configured width, 0 meaning default.
func (w *Window) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// Height returns the configured height, 0 meaning default.
func (w *Window) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// geometry returns the size substituted into launch templates.
func (w *Window) geometry() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	width, height := w.width, w.height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	return width, height
}

// SetDefaultPage replaces the HTML served at the window URL.
func (w *Window) SetDefaultPage(html string) {
	w.mu.Lock()
	w.page = html
	w.mu.Unlock()
}

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// GetUrl returns the window URL. The local form is a path on the embedded
// server; with remote it is prefixed with the bound scheme://host:port,
// binding the server first if needed.
func (w *Window) GetUrl(ctx context.Context, remote bool) (string, error) {
	if w.Destroyed() {
		return "", errors.New(errors.CodeWindowDestroyed).WithDetailf("window %d", w.id)
	}
	return w.mgr.windowURL(ctx, w, remote)
}

// Show launches a display client for the window; see Manager.Show.
func (w *Window) Show(ctx context.Context, where string) error {
	return w.mgr.Show(ctx, w, where)
}

// Destroy unregisters the endpoint and closes client connections. Calling
// it again is a no-op.
func (w *Window) Destroy() {
	w.mgr.destroyWindow(w)
}

// path returns the local URL, without key.
func (w *Window) path(base string) string {
	p := "/" + base + "/" + w.endpoint + "/"
	if w.batch {
		p += "?batch_mode"
	}
	return p
}
