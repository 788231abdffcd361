package webwin

import (
	"context"
	stderrors "errors"
	"os/exec"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/webdisplay/internal/config"
	"github.com/vango-dev/webdisplay/internal/errors"
	"github.com/vango-dev/webdisplay/internal/platform"
)

// Launch targets understood by Show besides engine names and programs.
const (
	WhereNative   = "native"
	WhereBrowser  = "browser"
	WhereChrome   = "chrome"
	WhereChromium = "chromium"
	WhereFirefox  = "firefox"
)

// DisplayEnv is the variable that must be set for headless cef.
const DisplayEnv = "DISPLAY"

type modeKind int

const (
	modeBrowser modeKind = iota
	modeEngine
	modeChrome
	modeFirefox
	modeProgram
)

func (k modeKind) String() string {
	switch k {
	case modeEngine:
		return "engine"
	case modeChrome:
		return "chrome"
	case modeFirefox:
		return "firefox"
	case modeProgram:
		return "program"
	}
	return "browser"
}

// launchMode is the resolved way of presenting a window.
type launchMode struct {
	kind   modeKind
	where  string
	engine Engine

	// cef is set when cef was requested or picked for native display.
	cef bool
}

// label is the metrics label for the mode.
func (l launchMode) label() string {
	if l.engine != nil {
		return l.engine.Name()
	}
	return l.kind.String()
}

// headless reports whether the mode can display batch windows.
func (l launchMode) headless() bool {
	switch {
	case l.cef:
		return true
	case l.engine != nil:
		return l.engine.Headless()
	}
	return l.kind == modeChrome || l.kind == modeFirefox
}

// resolveMode maps a where string to a launch mode. Engine names that are
// not registered or not available fall back to the default browser.
func resolveMode(where string, engines *EngineRegistry) launchMode {
	mode := launchMode{kind: modeBrowser, where: where}

	switch where {
	case "", WhereNative:
		if e, ok := engines.Native(); ok {
			mode.kind = modeEngine
			mode.engine = e
			mode.cef = e.Name() == EngineCEF
		}
		return mode
	case WhereChrome, WhereChromium:
		mode.kind = modeChrome
		return mode
	case WhereFirefox:
		mode.kind = modeFirefox
		return mode
	case WhereBrowser:
		return mode
	}

	mode.cef = where == EngineCEF
	if e, ok := engines.Lookup(where); ok {
		if e.Available() {
			mode.kind = modeEngine
			mode.engine = e
		}
		return mode
	}
	if where == EngineCEF || where == EngineQt5 {
		return mode
	}

	mode.kind = modeProgram
	return mode
}

// Show launches a display client for win. where selects the launch mode:
// "" or "native", an engine name ("cef", "qt5", ...), "chrome",
// "chromium", "firefox", "browser", a program name, or a command template
// containing $url/$width/$height/$prog placeholders.
//
// A key is recorded on the window only when the launch succeeds.
func (m *Manager) Show(ctx context.Context, win *Window, where string) (err error) {
	if where == "" {
		where = m.defaultDisplay
	}

	ctx, span := m.startSpan(ctx, "webwin.Show",
		attribute.Int("webwin.window", win.id),
		attribute.String("webwin.where", where),
		attribute.Bool("webwin.batch", win.batch))
	defer func() { endSpan(span, err) }()

	mode := launchMode{kind: modeBrowser, where: where}
	defer func() { m.metrics.show(mode.label(), err) }()

	if win.Destroyed() {
		return errors.New(errors.CodeWindowDestroyed).WithDetailf("window %d", win.id)
	}
	if m.Server() == nil {
		return errors.New(errors.CodeServerNotReady).WithDetail("server instance does not exist to show window")
	}

	key, err := win.reserveKey(m.rand)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			win.dropReservation(key)
		}
	}()

	local, err := m.windowURL(ctx, win, false)
	if err != nil {
		return err
	}
	local = appendKey(local, key)

	mode = resolveMode(where, m.engines)
	span.SetAttributes(attribute.String("webwin.mode", mode.label()))

	if win.batch {
		if !mode.headless() {
			return errors.New(errors.CodeBatchMode).WithDetailf("window %d requested with where=%q", win.id, where)
		}
		if mode.cef && m.getenv(DisplayEnv) == "" {
			return errors.New(errors.CodeMissingDisplay).WithDetailf("window %d requested with where=%q", win.id, where)
		}
	}

	width, height := win.geometry()

	if mode.engine != nil {
		req := EngineRequest{
			Path:        local,
			Batch:       win.batch,
			Width:       width,
			Height:      height,
			Handler:     m.Server(),
			InstallRoot: m.installRoot,
			RemoteURL: func(ctx context.Context) (string, error) {
				addr, err := m.EnsureServer(ctx, true)
				if err != nil {
					return "", err
				}
				return addr + local, nil
			},
		}
		m.logger.Debug("show window in engine", "window", win.id, "engine", mode.engine.Name(), "url", local)
		if err := mode.engine.Launch(ctx, req); err != nil {
			return errors.New(errors.CodeEngineFailed).WithDetailf("engine %s", mode.engine.Name()).Wrap(err)
		}
		win.AddKey(key, mode.engine.Name())
		committed = true
		return nil
	}

	addr, err := m.EnsureServer(ctx, true)
	if err != nil {
		return err
	}
	remote := addr + local

	spec := m.launchSpec(mode, win.batch)
	values := Placeholders{
		URL:    remote,
		Width:  strconv.Itoa(width),
		Height: strconv.Itoa(height),
	}

	if spec.Async {
		if len(spec.Args) == 0 {
			return errors.New(errors.CodeSpawnFailed).WithDetail("fork template has no arguments")
		}
		argv := spec.Argv(values)
		m.logger.Debug("show window with direct spawn", "window", win.id, "program", spec.Program, "args", argv)

		pid, err := m.supervisor.Spawn(spec.Program, argv)
		if err != nil {
			return err
		}
		win.AddKey(key, PIDTag(pid))
		committed = true
		return nil
	}

	cmdline := spec.CommandLine(values, m.platform.EscapeProgram)
	m.logger.Debug("show window with shell", "window", win.id, "command", cmdline)

	if err := m.platform.Shell(ctx, cmdline); err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return errors.New(errors.CodeSpawnFailed).WithDetailf("shell command %q", cmdline).Wrap(err)
		}
		m.logger.Warn("launch command exited with error", "command", cmdline, "error", err)
	}
	win.AddKey(key, where)
	committed = true
	return nil
}

// launchSpec resolves the template and program for a non-engine mode.
func (m *Manager) launchSpec(mode launchMode, batch bool) LaunchSpec {
	var tmpl, prog string
	var browser string

	switch mode.kind {
	case modeChrome:
		browser = platform.BrowserChrome
		prog = config.String(m.config, config.KeyChrome, "")
		if batch {
			tmpl = config.String(m.config, config.KeyChromeBatch, ChromeBatchTemplate)
		} else {
			tmpl = config.String(m.config, config.KeyChromeInteractive, ChromeInteractiveTemplate)
		}
	case modeFirefox:
		browser = platform.BrowserFirefox
		prog = config.String(m.config, config.KeyFirefox, "")
		if batch {
			tmpl = config.String(m.config, config.KeyFirefoxBatch, FirefoxBatchTemplate)
		} else {
			tmpl = config.String(m.config, config.KeyFirefoxInteractive, FirefoxInteractiveTemplate)
		}
	case modeProgram:
		if isTemplate(mode.where) {
			tmpl = mode.where
		} else {
			tmpl = ProgramTemplate
		}
	default:
		tmpl = m.platform.OpenCommand()
	}

	if prog == "" && browser != "" {
		for _, candidate := range m.platform.Candidates(browser) {
			if m.platform.Exists(candidate) {
				prog = candidate
				break
			}
		}
	}
	if prog == "" {
		prog = mode.where
	}

	return ParseLaunchSpec(prog, tmpl)
}

// appendKey adds the session key to a window URL.
func appendKey(url, key string) string {
	if strings.Contains(url, "?") {
		return url + "&key=" + key
	}
	return url + "?key=" + key
}
