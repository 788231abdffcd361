package webwin

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseLaunchSpec(t *testing.T) {
	spec := ParseLaunchSpec("/opt/chrome", ChromeBatchTemplate)
	if !spec.Async {
		t.Fatal("fork template should be async")
	}
	want := []string{"--headless", "--disable-gpu", "--disable-webgl", "--remote-debugging-socket-fd=0", "$url"}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Errorf("Args = %q", spec.Args)
	}

	shell := ParseLaunchSpec("firefox", FirefoxInteractiveTemplate)
	if shell.Async || shell.Command != FirefoxInteractiveTemplate {
		t.Errorf("shell spec = %+v", shell)
	}
}

func TestLaunchSpec_ArgvNeverResplits(t *testing.T) {
	spec := ParseLaunchSpec("/opt/ff", FirefoxBatchTemplate)
	argv := spec.Argv(Placeholders{
		URL:    "http://localhost:8800/webgui/w1/?batch_mode&key=1; rm -rf x",
		Width:  "800",
		Height: "600",
	})

	want := []string{
		"-headless", "-no-remote", "-window-size=800,600",
		"http://localhost:8800/webgui/w1/?batch_mode&key=1; rm -rf x",
	}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("Argv() = %q\nwant %q", argv, want)
	}
}

func TestLaunchSpec_CommandLine(t *testing.T) {
	tests := []struct {
		name   string
		prog   string
		tmpl   string
		escape func(string) string
		want   string
	}{
		{
			name: "chrome interactive",
			prog: "/usr/bin/chromium",
			tmpl: ChromeInteractiveTemplate,
			want: "/usr/bin/chromium --window-size=1024,768 --app='http://h/x' &",
		},
		{
			name:   "escaped program",
			prog:   "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			tmpl:   ProgramTemplate,
			escape: func(s string) string { return strings.ReplaceAll(s, " ", `\ `) },
			want:   `/Applications/Google\ Chrome.app/Contents/MacOS/Google\ Chrome http://h/x &`,
		},
		{
			name: "no placeholders",
			prog: "viewer",
			tmpl: "viewer --fixed",
			want: "viewer --fixed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ParseLaunchSpec(tt.prog, tt.tmpl)
			got := spec.CommandLine(Placeholders{URL: "http://h/x", Width: "1024", Height: "768"}, tt.escape)
			if got != tt.want {
				t.Errorf("CommandLine() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestIsTemplate(t *testing.T) {
	if !isTemplate("viewer $url") || isTemplate("/usr/bin/viewer") {
		t.Error("isTemplate mismatch")
	}
}
