package webwin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"

	"github.com/vango-dev/webdisplay/internal/config"
)

type spawnCall struct {
	program string
	args    []string
}

// fakePlatform records launches instead of running anything.
type fakePlatform struct {
	mu       sync.Mutex
	nextPID  int
	spawned  []spawnCall
	killed   []int
	shells   []string
	spawnErr error
	shellErr error
	killErr  error
	existing map[string]bool
	browsers map[string][]string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextPID:  1234,
		existing: make(map[string]bool),
		browsers: make(map[string][]string),
	}
}

func (p *fakePlatform) Name() string { return "fake" }

func (p *fakePlatform) Spawn(program string, args []string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spawnErr != nil {
		return 0, p.spawnErr
	}
	p.spawned = append(p.spawned, spawnCall{program: program, args: args})
	pid := p.nextPID
	p.nextPID++
	return pid, nil
}

func (p *fakePlatform) Kill(pid int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = append(p.killed, pid)
	return p.killErr
}

func (p *fakePlatform) Shell(ctx context.Context, command string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shells = append(p.shells, command)
	return p.shellErr
}

func (p *fakePlatform) EscapeProgram(path string) string { return path }

func (p *fakePlatform) OpenCommand() string { return "xdg-open '$url' &" }

func (p *fakePlatform) Candidates(browser string) []string { return p.browsers[browser] }

func (p *fakePlatform) Exists(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.existing[path]
}

func (p *fakePlatform) killedPIDs() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.killed...)
}

func (p *fakePlatform) spawnCalls() []spawnCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]spawnCall(nil), p.spawned...)
}

func (p *fakePlatform) shellCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.shells...)
}

// fakeEngine is an in-process engine that records its requests.
type fakeEngine struct {
	name      string
	available bool
	headless  bool
	err       error

	mu       sync.Mutex
	requests []EngineRequest
}

func (e *fakeEngine) Name() string    { return e.name }
func (e *fakeEngine) Available() bool { return e.available }
func (e *fakeEngine) Headless() bool  { return e.headless }

func (e *fakeEngine) Launch(ctx context.Context, req EngineRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, req)
	return e.err
}

func (e *fakeEngine) launched() []EngineRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EngineRequest(nil), e.requests...)
}

var errPortBusy = errors.New("address already in use")

// busyListen fails every bind and counts the attempts.
type busyListen struct {
	mu    sync.Mutex
	addrs []string
}

func (b *busyListen) listen(network, address string) (net.Listener, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addrs = append(b.addrs, address)
	return nil, errPortBusy
}

func (b *busyListen) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.addrs)
}

// loopbackListen binds an ephemeral loopback port whatever address is asked.
type loopbackListen struct {
	mu    sync.Mutex
	addrs []string
}

func (l *loopbackListen) listen(network, address string) (net.Listener, error) {
	l.mu.Lock()
	l.addrs = append(l.addrs, address)
	l.mu.Unlock()
	return net.Listen("tcp", "127.0.0.1:0")
}

func (l *loopbackListen) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.addrs)
}

// fixedRand always draws the same value.
func fixedRand(v int) func(int) int {
	return func(n int) int { return v % n }
}

// seqRand draws the given values in order, then repeats the last one.
func seqRand(values ...int) func(int) int {
	var mu sync.Mutex
	i := 0
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v % n
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testManager struct {
	*Manager
	platform *fakePlatform
	listener *loopbackListen
}

// newTestManager returns a manager that binds loopback ports and records
// launches. opts may adjust the options before the manager is built.
func newTestManager(t *testing.T, values config.Values, opts ...func(*Options)) *testManager {
	t.Helper()

	p := newFakePlatform()
	l := &loopbackListen{}
	o := Options{
		Config:   values,
		Platform: p,
		Logger:   discardLogger(),
		Rand:     fixedRand(42),
		Getenv:   func(string) string { return "" },
		Listen:   l.listen,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := New(o)
	t.Cleanup(func() {
		_ = m.Terminate(context.Background())
	})
	return &testManager{Manager: m, platform: p, listener: l}
}
