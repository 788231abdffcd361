package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/webdisplay/internal/errors"
)

func TestValuesAccessors(t *testing.T) {
	v := Values{}.
		Set(KeyHttpPort, "8088").
		Set(KeyHttpLoopback, "yes").
		Set(KeyWaitTimeout, "2.5").
		Set(KeyHttpBind, "10.0.0.1").
		Set(KeyHttpPortMin, "not-a-number")

	if got := Int(v, KeyHttpPort, 0); got != 8088 {
		t.Errorf("Int(HttpPort) = %d, want 8088", got)
	}
	if got := Int(v, KeyHttpPortMin, DefaultHttpPortMin); got != DefaultHttpPortMin {
		t.Errorf("Int(bad) = %d, want default %d", got, DefaultHttpPortMin)
	}
	if got := Int(v, KeyHttpPortMax, DefaultHttpPortMax); got != DefaultHttpPortMax {
		t.Errorf("Int(missing) = %d, want default %d", got, DefaultHttpPortMax)
	}
	if got := Float(v, KeyWaitTimeout, DefaultWaitTimeout); got != 2.5 {
		t.Errorf("Float(WaitForTmout) = %v, want 2.5", got)
	}
	if !Bool(v, KeyHttpLoopback, false) {
		t.Error("Bool(HttpLoopback) = false, want true")
	}
	if got := String(v, KeyHttpBind, ""); got != "10.0.0.1" {
		t.Errorf("String(HttpBind) = %q", got)
	}
	if got := String(nil, KeyHttpBind, "dflt"); got != "dflt" {
		t.Errorf("String(nil lookup) = %q, want default", got)
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"yes", false, true},
		{"YES", false, true},
		{"true", false, true},
		{"on", false, true},
		{"1", false, true},
		{"no", true, false},
		{"off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := Values{KeyUseHttps: tt.value}
			if got := Bool(v, KeyUseHttps, tt.def); got != tt.want {
				t.Errorf("Bool(%q, def=%v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadFile(filepath.Join(tmpDir, ConfigFileName))
	if !errors.HasCode(err, errors.CodeConfigFile) {
		t.Fatalf("missing file error = %v, want %s", err, errors.CodeConfigFile)
	}

	path := filepath.Join(tmpDir, ConfigFileName)
	content := `{
  "HttpPortMin": 9000,
  "HttpPortMax": 9010,
  "HttpLoopback": "yes",
  "UseHttps": false,
  "ChromeBatch": "fork:--headless $url",
  "HttpBind": null
}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := Int(v, KeyHttpPortMin, 0); got != 9000 {
		t.Errorf("HttpPortMin = %d, want 9000", got)
	}
	if got := Int(v, KeyHttpPortMax, 0); got != 9010 {
		t.Errorf("HttpPortMax = %d, want 9010", got)
	}
	if Bool(v, KeyUseHttps, true) {
		t.Error("UseHttps should be false")
	}
	if got := String(v, KeyChromeBatch, ""); got != "fork:--headless $url" {
		t.Errorf("ChromeBatch = %q", got)
	}
	if _, ok := v.Get(KeyHttpBind); ok {
		t.Error("null values should be skipped")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{HttpPort: 1"},
		{"nested object", `{"HttpPort": {"value": 1}}`},
		{"array value", `{"HttpPort": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); !errors.HasCode(err, errors.CodeConfigFile) {
				t.Errorf("LoadFile() error = %v, want %s", err, errors.CodeConfigFile)
			}
		})
	}
}

func TestEnvAndChain(t *testing.T) {
	t.Setenv("WEBGUI_HTTPPORT", "8123")
	t.Setenv("WEBGUI_HTTPLOOPBACK", "no")

	file := Values{KeyHttpPort: "9000", KeyHttpLoopback: "yes", KeyHttpBind: "0.0.0.0"}
	cfg := Chain(Env(EnvPrefix), nil, file)

	if got := Int(cfg, KeyHttpPort, 0); got != 8123 {
		t.Errorf("HttpPort = %d, want env override 8123", got)
	}
	if Bool(cfg, KeyHttpLoopback, true) {
		t.Error("HttpLoopback should come from env (no)")
	}
	if got := String(cfg, KeyHttpBind, ""); got != "0.0.0.0" {
		t.Errorf("HttpBind = %q, want file value", got)
	}
	if _, ok := cfg.Get(KeyServerCert); ok {
		t.Error("unset key should not resolve")
	}
}

func TestDump(t *testing.T) {
	v := Values{KeyHttpPort: "8088", KeyDisplay: "chrome", "Unknown": "x"}
	out := Dump(v)
	if out != "HttpPort = 8088\nDisplay = chrome\n" {
		t.Errorf("Dump() = %q", out)
	}
}
