package platform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestCurrent(t *testing.T) {
	p := Current()

	want := NamePosix
	switch runtime.GOOS {
	case "darwin":
		want = NameMacOS
	case "windows":
		want = NameWindows
	}
	if p.Name() != want {
		t.Errorf("Name() = %q, want %q", p.Name(), want)
	}

	if !strings.Contains(p.OpenCommand(), "$url") {
		t.Errorf("OpenCommand() = %q, want $url placeholder", p.OpenCommand())
	}
	if len(p.Candidates(BrowserChrome)) == 0 {
		t.Error("Candidates(chrome) should not be empty")
	}
	if p.Candidates("opera") != nil {
		t.Error("Candidates of unknown browser should be nil")
	}
}

func TestExists(t *testing.T) {
	p := Current()
	tmp := t.TempDir()
	file := filepath.Join(tmp, "browser")
	if err := os.WriteFile(file, nil, 0755); err != nil {
		t.Fatal(err)
	}

	if !p.Exists(file) {
		t.Errorf("Exists(%q) = false", file)
	}
	if p.Exists(filepath.Join(tmp, "missing")) {
		t.Error("Exists(missing) = true")
	}
	if p.Exists("") {
		t.Error("Exists(\"\") = true")
	}
}

func TestEscapeProgram(t *testing.T) {
	p := Current()
	path := "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"

	got := p.EscapeProgram(path)
	switch p.Name() {
	case NameMacOS:
		want := `/Applications/Google\ Chrome.app/Contents/MacOS/Google\ Chrome`
		if got != want {
			t.Errorf("EscapeProgram() = %q, want %q", got, want)
		}
	case NameWindows:
		if got != `"`+path+`"` {
			t.Errorf("EscapeProgram() = %q, want quoted path", got)
		}
	default:
		if got != path {
			t.Errorf("EscapeProgram() = %q, want unchanged", got)
		}
	}
}

func TestSpawnAndKill(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix sleep binary")
	}
	sleep, err := findSleep()
	if err != nil {
		t.Skip(err)
	}

	p := Current()
	pid, err := p.Spawn(sleep, []string{"30"})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if pid <= 0 {
		t.Fatalf("Spawn() pid = %d, want > 0", pid)
	}

	if err := p.Kill(pid); err != nil {
		t.Fatalf("Kill(%d) error = %v", pid, err)
	}

	// The reaper goroutine collects the child; afterwards the pid is gone.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.Kill(pid) != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("process %d still alive after Kill", pid)
}

func TestSpawn_Missing(t *testing.T) {
	p := Current()
	if _, err := p.Spawn(filepath.Join(t.TempDir(), "no-such-browser"), nil); err == nil {
		t.Error("Spawn() of missing program should fail")
	}
}

func TestShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell syntax")
	}
	out := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Current().Shell(ctx, "echo launched > '"+out+"'"); err != nil {
		t.Fatalf("Shell() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "launched" {
		t.Errorf("shell output = %q", data)
	}
}

func findSleep() (string, error) {
	for _, p := range []string{"/bin/sleep", "/usr/bin/sleep"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}
