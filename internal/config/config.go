package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vango-dev/webdisplay/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "webdisplay.json"

	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "WEBGUI_"
)

// Keys consumed by the window manager.
const (
	KeyHttpPort      = "HttpPort"
	KeyHttpPortMin   = "HttpPortMin"
	KeyHttpPortMax   = "HttpPortMax"
	KeyHttpWSTimeout = "HttpWStmout"
	KeyHttpLoopback  = "HttpLoopback"
	KeyHttpBind      = "HttpBind"
	KeyUseHttps      = "UseHttps"
	KeyServerCert    = "ServerCert"
	KeyWaitTimeout   = "WaitForTmout"

	KeyChromeBatch        = "ChromeBatch"
	KeyChromeInteractive  = "ChromeInteractive"
	KeyFirefoxBatch       = "FirefoxBatch"
	KeyFirefoxInteractive = "FirefoxInteractive"
	KeyChrome             = "Chrome"
	KeyFirefox            = "Firefox"

	KeyDisplay      = "Display"
	KeyBatch        = "Batch"
	KeyBaseEndpoint = "BaseEndpoint"
)

// Defaults for the keys above.
const (
	DefaultHttpPortMin   = 8800
	DefaultHttpPortMax   = 9800
	DefaultHttpWSTimeout = 10000
	DefaultServerCert    = "rootserver.pem"
	DefaultWaitTimeout   = 100.0
	DefaultBaseEndpoint  = "webgui"
)

// Keys lists every key the manager reads, in documentation order.
var Keys = []string{
	KeyHttpPort, KeyHttpPortMin, KeyHttpPortMax, KeyHttpWSTimeout,
	KeyHttpLoopback, KeyHttpBind, KeyUseHttps, KeyServerCert, KeyWaitTimeout,
	KeyChromeBatch, KeyChromeInteractive, KeyFirefoxBatch, KeyFirefoxInteractive,
	KeyChrome, KeyFirefox, KeyDisplay, KeyBatch, KeyBaseEndpoint,
}

// Lookup resolves a configuration key to its raw string value.
type Lookup interface {
	Get(key string) (string, bool)
}

// Values is an in-memory Lookup.
type Values map[string]string

// Get implements Lookup.
func (v Values) Get(key string) (string, bool) {
	s, ok := v[key]
	return s, ok
}

// Set stores a value and returns v for chaining.
func (v Values) Set(key, value string) Values {
	v[key] = value
	return v
}

// LoadFile reads a flat JSON object from path. Numbers and booleans are
// stored in their JSON text form.
func LoadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigFile).
				WithDetailf("no %s found at %s", ConfigFileName, path).
				Wrap(err)
		}
		return nil, errors.New(errors.CodeConfigFile).Wrap(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.CodeConfigFile).
			WithDetail("failed to parse " + path + ": " + err.Error())
	}

	values := make(Values, len(raw))
	for key, msg := range raw {
		text := strings.TrimSpace(string(msg))
		if text == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			values[key] = s
			continue
		}
		if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
			return nil, errors.New(errors.CodeConfigFile).
				WithDetailf("key %q must be a scalar", key)
		}
		values[key] = text
	}
	return values, nil
}

// Env returns a Lookup backed by the process environment. Key "HttpPort"
// is read from <prefix>HTTPPORT.
func Env(prefix string) Lookup {
	return envLookup{prefix: prefix, getenv: os.LookupEnv}
}

type envLookup struct {
	prefix string
	getenv func(string) (string, bool)
}

func (e envLookup) Get(key string) (string, bool) {
	return e.getenv(e.prefix + strings.ToUpper(key))
}

// Chain returns a Lookup that consults each source in order.
func Chain(sources ...Lookup) Lookup {
	return chain(sources)
}

type chain []Lookup

func (c chain) Get(key string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

// String returns the value of key or def.
func String(l Lookup, key, def string) string {
	if l == nil {
		return def
	}
	if v, ok := l.Get(key); ok {
		return v
	}
	return def
}

// Int returns the integer value of key or def when the key is missing or
// not a number.
func Int(l Lookup, key string, def int) int {
	s := strings.TrimSpace(String(l, key, ""))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Float returns the float value of key or def.
func Float(l Lookup, key string, def float64) float64 {
	s := strings.TrimSpace(String(l, key, ""))
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// Bool returns the boolean value of key. Accepts yes/no, true/false,
// on/off and 1/0 in any case.
func Bool(l Lookup, key string, def bool) bool {
	s := strings.ToLower(strings.TrimSpace(String(l, key, "")))
	switch s {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	}
	return def
}

// Dump renders every known key that l defines, one "key = value" per line.
func Dump(l Lookup) string {
	var b strings.Builder
	for _, key := range Keys {
		if v, ok := l.Get(key); ok {
			fmt.Fprintf(&b, "%s = %s\n", key, v)
		}
	}
	return b.String()
}
