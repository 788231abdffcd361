package platform

import (
	"context"
	"os"
	"os/exec"
)

// Platform variant names.
const (
	NamePosix   = "posix"
	NameMacOS   = "macos"
	NameWindows = "windows"
)

// Browser kinds with well-known install locations.
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
)

// Platform is the OS capability used by the launcher and supervisor.
type Platform interface {
	// Name returns the variant name (posix, macos, windows).
	Name() string

	// Spawn starts program with args without waiting for it and returns
	// its process id. The environment is inherited.
	Spawn(program string, args []string) (int, error)

	// Kill forcefully terminates the process with the given id.
	Kill(pid int) error

	// Shell runs a command line through the system shell and waits for
	// the shell itself to return.
	Shell(ctx context.Context, command string) error

	// EscapeProgram escapes a program path for substitution into a shell
	// command line.
	EscapeProgram(path string) string

	// OpenCommand returns the shell template that opens $url in the
	// system default browser.
	OpenCommand() string

	// Candidates returns install locations probed for a browser kind,
	// in priority order.
	Candidates(browser string) []string

	// Exists reports whether path exists.
	Exists(path string) bool
}

// System is the Platform of the running operating system.
type System struct{}

// Current returns the Platform for the running operating system.
func Current() Platform {
	return System{}
}

// Name implements Platform.
func (System) Name() string {
	return platformName
}

// Spawn implements Platform. The child is reaped in the background so a
// later Kill never leaves a zombie behind.
func (System) Spawn(program string, args []string) (int, error) {
	cmd := exec.Command(program, args...)
	cmd.SysProcAttr = spawnAttr()

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	go func() {
		_ = cmd.Wait()
	}()

	return cmd.Process.Pid, nil
}

// Kill implements Platform.
func (System) Kill(pid int) error {
	return killProcess(pid)
}

// Shell implements Platform.
func (System) Shell(ctx context.Context, command string) error {
	name, args := shellCommand(command)
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}

// EscapeProgram implements Platform.
func (System) EscapeProgram(path string) string {
	return escapeProgram(path)
}

// OpenCommand implements Platform.
func (System) OpenCommand() string {
	return openCommand
}

// Candidates implements Platform.
func (System) Candidates(browser string) []string {
	return browserCandidates[browser]
}

// Exists implements Platform.
func (System) Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
