// Package lorca provides an in-process display engine that opens windows
// as Chrome app windows driven over the DevTools protocol.
//
// The Chrome binary is located by github.com/zserge/lorca, which honours
// the LORCACHROME environment variable before probing install locations.
package lorca

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	zlorca "github.com/zserge/lorca"

	"github.com/vango-dev/webdisplay/pkg/webwin"
)

// Name is the launch tag selecting this engine.
const Name = "lorca"

// Engine implements webwin.Engine.
type Engine struct {
	logger *slog.Logger

	// locate and open are replaced in tests.
	locate func() string
	open   func(url, dir string, width, height int, args ...string) (zlorca.UI, error)

	mu  sync.Mutex
	uis map[zlorca.UI]struct{}
}

// New returns an engine. logger may be nil.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger.With("component", "lorca"),
		locate: zlorca.LocateChrome,
		open:   zlorca.New,
		uis:    make(map[zlorca.UI]struct{}),
	}
}

// Name implements webwin.Engine.
func (e *Engine) Name() string {
	return Name
}

// Available reports whether a Chrome installation was found.
func (e *Engine) Available() bool {
	return e.locate() != ""
}

// Headless implements webwin.Engine; Chrome runs headless with --headless.
func (e *Engine) Headless() bool {
	return true
}

// Launch opens the window URL and returns once Chrome is connected. The
// window is tracked until the user closes it or Close is called.
func (e *Engine) Launch(ctx context.Context, req webwin.EngineRequest) error {
	if req.RemoteURL == nil {
		return fmt.Errorf("lorca: request has no remote URL")
	}
	url, err := req.RemoteURL(ctx)
	if err != nil {
		return err
	}

	var args []string
	if req.Batch {
		args = append(args, "--headless", "--disable-gpu")
	}

	ui, err := e.open(url, "", req.Width, req.Height, args...)
	if err != nil {
		return fmt.Errorf("lorca: %w", err)
	}

	e.mu.Lock()
	e.uis[ui] = struct{}{}
	e.mu.Unlock()
	e.logger.Info("window opened", "url", url, "batch", req.Batch)

	go func() {
		<-ui.Done()
		e.mu.Lock()
		delete(e.uis, ui)
		e.mu.Unlock()
		e.logger.Debug("window closed", "url", url)
	}()
	return nil
}

// Open returns the number of windows still open.
func (e *Engine) Open() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.uis)
}

// Close closes every window the engine opened.
func (e *Engine) Close() error {
	e.mu.Lock()
	uis := make([]zlorca.UI, 0, len(e.uis))
	for ui := range e.uis {
		uis = append(uis, ui)
	}
	e.mu.Unlock()

	var first error
	for _, ui := range uis {
		if err := ui.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ webwin.Engine = (*Engine)(nil)
