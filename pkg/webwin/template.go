package webwin

import (
	"strings"
)

// forkMarker prefixes templates that are spawned directly, keeping the pid.
const forkMarker = "fork:"

// Default launch templates. Each can be overridden by the matching config key.
const (
	ChromeBatchTemplate        = "fork:--headless --disable-gpu --disable-webgl --remote-debugging-socket-fd=0 $url"
	ChromeInteractiveTemplate  = "$prog --window-size=$width,$height --app='$url' &"
	FirefoxBatchTemplate       = "fork:-headless -no-remote -window-size=$width,$height $url"
	FirefoxInteractiveTemplate = "$prog '$url' &"
	ProgramTemplate            = "$prog $url &"
)

// LaunchSpec is a parsed launch template.
type LaunchSpec struct {
	// Program is the resolved executable substituted for $prog.
	Program string

	// Async selects direct spawn: Args are expanded one by one into an
	// argument vector and the child pid is kept.
	Async bool
	Args  []string

	// Command is the shell command line template used when Async is false.
	Command string
}

// ParseLaunchSpec parses a template for program.
func ParseLaunchSpec(program, tmpl string) LaunchSpec {
	if rest, ok := strings.CutPrefix(tmpl, forkMarker); ok {
		return LaunchSpec{
			Program: program,
			Async:   true,
			Args:    strings.Fields(rest),
		}
	}
	return LaunchSpec{Program: program, Command: tmpl}
}

// Placeholders are the values substituted into launch templates.
type Placeholders struct {
	URL    string
	Width  string
	Height string
	Prog   string
}

func (p Placeholders) expand(s string) string {
	return strings.NewReplacer(
		"$url", p.URL,
		"$width", p.Width,
		"$height", p.Height,
		"$prog", p.Prog,
	).Replace(s)
}

// Argv expands the direct-spawn arguments. Placeholders are substituted
// per argument, never re-split.
func (s LaunchSpec) Argv(p Placeholders) []string {
	p.Prog = s.Program
	argv := make([]string, len(s.Args))
	for i, arg := range s.Args {
		argv[i] = p.expand(arg)
	}
	return argv
}

// CommandLine expands the shell template; escape adapts the program path
// to the platform shell.
func (s LaunchSpec) CommandLine(p Placeholders, escape func(string) string) string {
	p.Prog = s.Program
	if escape != nil {
		p.Prog = escape(s.Program)
	}
	return p.expand(s.Command)
}

// isTemplate reports whether where is a command template rather than a
// program name.
func isTemplate(where string) bool {
	return strings.Contains(where, "$")
}
