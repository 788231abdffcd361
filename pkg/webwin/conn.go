package webwin

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const defaultWSTimeout = 10 * time.Second

// WebSocketPath is the window-relative path clients connect to.
const WebSocketPath = "root.websocket"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="font-family: system-ui; margin: 0; padding: 24px;">
<div id="status">connecting...</div>
<script>
(function() {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + location.pathname + "{{.Socket}}" + location.search);
  var status = document.getElementById("status");
  ws.onopen = function() { status.textContent = "connected"; };
  ws.onclose = function() { status.textContent = "disconnected"; };
  ws.onmessage = function(ev) { status.textContent = ev.data; };
})();
</script>
</body>
</html>
`))

// DefaultPage is the HTML served at a window URL unless replaced with
// SetDefaultPage. It opens the window WebSocket, passing the session key.
var DefaultPage = renderPage("webdisplay")

func renderPage(title string) string {
	var b strings.Builder
	_ = pageTemplate.Execute(&b, struct{ Title, Socket string }{title, WebSocketPath})
	return b.String()
}

// ServeHTTP serves the window page and its WebSocket endpoint.
func (w *Window) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "*") {
	case "", "index.html":
		w.mu.Lock()
		page := w.page
		w.mu.Unlock()
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		rw.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		_, _ = rw.Write([]byte(page))
	case WebSocketPath:
		w.serveWebSocket(rw, r)
	default:
		http.NotFound(rw, r)
	}
}

func (w *Window) serveWebSocket(rw http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" || !w.claimKey(key) {
		w.mgr.logger.Debug("rejected window connection", "window", w.id, "key", key)
		http.Error(rw, "invalid session key", http.StatusForbidden)
		return
	}

	upgrader := websocket.Upgrader{
		HandshakeTimeout: w.mgr.wsTimeout(),
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // keys gate access, not origins
		},
	}
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.unclaimKey(key)
		return
	}

	id, ok := w.addConn(conn)
	if !ok {
		conn.Close()
		return
	}
	w.mgr.metrics.connectionOpened()
	w.mgr.logger.Info("client connected", "window", w.id, "key", key)

	defer func() {
		w.removeConn(id)
		conn.Close()
		w.mgr.metrics.connectionClosed()
		if tag, ok := w.RemoveKey(key); ok {
			w.mgr.logger.Info("client disconnected", "window", w.id, "key", key, "tag", tag)
			w.mgr.Halt(tag)
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *Window) addConn(conn *websocket.Conn) (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return 0, false
	}
	w.nextConn++
	w.conns[w.nextConn] = conn
	return w.nextConn, true
}

func (w *Window) removeConn(id uint64) {
	w.mu.Lock()
	delete(w.conns, id)
	w.mu.Unlock()
}

// NumConnections returns the number of connected display clients.
func (w *Window) NumConnections() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.conns)
}

// Broadcast sends a text message to every connected client and returns the
// number of clients that received it.
func (w *Window) Broadcast(msg string) int {
	w.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(w.conns))
	for _, c := range w.conns {
		conns = append(conns, c)
	}
	w.mu.Unlock()

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	sent := 0
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err == nil {
			sent++
		}
	}
	return sent
}

// closeConns closes every client connection; their read loops then run
// the normal disconnect path.
func (w *Window) closeConns() {
	w.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(w.conns))
	for _, c := range w.conns {
		conns = append(conns, c)
	}
	w.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "window closed"),
			time.Now().Add(time.Second))
		c.Close()
	}
}
