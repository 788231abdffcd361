package lorca

import (
	"context"
	"errors"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	zlorca "github.com/zserge/lorca"

	"github.com/vango-dev/webdisplay/pkg/webwin"
)

// fakeUI implements the parts of zlorca.UI the engine uses.
type fakeUI struct {
	zlorca.UI

	once sync.Once
	done chan struct{}
}

func newFakeUI() *fakeUI {
	return &fakeUI{done: make(chan struct{})}
}

func (u *fakeUI) Done() <-chan struct{} { return u.done }

func (u *fakeUI) Close() error {
	u.once.Do(func() { close(u.done) })
	return nil
}

type openCall struct {
	url           string
	width, height int
	args          []string
}

func newTestEngine(ui *fakeUI, openErr error) (*Engine, *[]openCall) {
	var calls []openCall
	e := New(nil)
	e.locate = func() string { return "/usr/bin/chromium" }
	e.open = func(url, dir string, width, height int, args ...string) (zlorca.UI, error) {
		calls = append(calls, openCall{url: url, width: width, height: height, args: args})
		if openErr != nil {
			return nil, openErr
		}
		return ui, nil
	}
	return e, &calls
}

func remote(url string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return url, nil }
}

func waitOpen(t *testing.T, e *Engine, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for e.Open() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Open() = %d, want %d", e.Open(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEngine_Launch(t *testing.T) {
	ui := newFakeUI()
	e, calls := newTestEngine(ui, nil)

	err := e.Launch(context.Background(), webwin.EngineRequest{
		Path:      "/webgui/w1/?key=1",
		Width:     800,
		Height:    600,
		RemoteURL: remote("http://localhost:8800/webgui/w1/?key=1"),
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}

	want := []openCall{{url: "http://localhost:8800/webgui/w1/?key=1", width: 800, height: 600}}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("open calls = %+v", *calls)
	}
	waitOpen(t, e, 1)

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	waitOpen(t, e, 0)
}

func TestEngine_LaunchBatch(t *testing.T) {
	e, calls := newTestEngine(newFakeUI(), nil)
	defer e.Close()

	err := e.Launch(context.Background(), webwin.EngineRequest{
		Batch:     true,
		Width:     800,
		Height:    600,
		RemoteURL: remote("http://localhost:8800/webgui/w1/?batch_mode&key=1"),
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if got := (*calls)[0].args; !reflect.DeepEqual(got, []string{"--headless", "--disable-gpu"}) {
		t.Errorf("args = %q", got)
	}
}

func TestEngine_LaunchErrors(t *testing.T) {
	openErr := errors.New("chrome exited")
	e, _ := newTestEngine(nil, openErr)

	if err := e.Launch(context.Background(), webwin.EngineRequest{}); err == nil {
		t.Error("missing RemoteURL should fail")
	}

	bindErr := errors.New("bind failed")
	err := e.Launch(context.Background(), webwin.EngineRequest{
		RemoteURL: func(context.Context) (string, error) { return "", bindErr },
	})
	if !errors.Is(err, bindErr) {
		t.Errorf("error = %v, want bind error", err)
	}

	err = e.Launch(context.Background(), webwin.EngineRequest{RemoteURL: remote("http://x")})
	if !errors.Is(err, openErr) {
		t.Errorf("error = %v, want open error", err)
	}
	if e.Open() != 0 {
		t.Error("failed launch must not be tracked")
	}
}

func TestEngine_Available(t *testing.T) {
	e := New(nil)
	e.locate = func() string { return "" }
	if e.Available() {
		t.Error("Available() = true without chrome")
	}
	e.locate = func() string { return "/opt/chrome" }
	if !e.Available() || !e.Headless() || e.Name() != Name {
		t.Error("engine metadata mismatch")
	}
}

func TestEngine_ShowThroughManager(t *testing.T) {
	ui := newFakeUI()
	e, calls := newTestEngine(ui, nil)
	defer e.Close()

	m := webwin.New(webwin.Options{
		Engines: webwin.NewEngineRegistry(e),
		Rand:    func(n int) int { return 7 % n },
		Getenv:  func(string) string { return "" },
		Listen: func(network, address string) (net.Listener, error) {
			return net.Listen("tcp", "127.0.0.1:0")
		},
	})
	defer m.Terminate(context.Background())

	w := m.CreateWindow(false)
	if err := w.Show(context.Background(), "native"); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if tag, _ := w.KeyTag("7"); tag != Name {
		t.Errorf("tag = %q, want %q", tag, Name)
	}
	if len(*calls) != 1 {
		t.Fatalf("open calls = %d", len(*calls))
	}
	if want := m.Addr() + "/webgui/w1/?key=7"; (*calls)[0].url != want {
		t.Errorf("url = %q, want %q", (*calls)[0].url, want)
	}
}
