package webwin

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/webdisplay/internal/config"
	"github.com/vango-dev/webdisplay/internal/errors"
)

// maxBindAttempts caps how many ports are tried per EnsureServer call.
const maxBindAttempts = 100

// ServerConfig holds the settings used to bind the embedded server. It is
// read once per server-creation attempt.
type ServerConfig struct {
	// FixedPort is the port to try first. 0 draws from [MinPort, MaxPort);
	// a negative value forbids creating a network server.
	FixedPort int

	MinPort int
	MaxPort int

	// Loopback restricts the listener to 127.0.0.1.
	Loopback bool

	// BindAddress is the interface to listen on; it also becomes the host
	// of remote URLs.
	BindAddress string

	UseTLS   bool
	CertPath string

	// WSTimeout bounds the WebSocket handshake on window endpoints.
	WSTimeout time.Duration
}

// ReadServerConfig reads the server settings from l.
func ReadServerConfig(l config.Lookup) ServerConfig {
	return ServerConfig{
		FixedPort:   config.Int(l, config.KeyHttpPort, 0),
		MinPort:     config.Int(l, config.KeyHttpPortMin, config.DefaultHttpPortMin),
		MaxPort:     config.Int(l, config.KeyHttpPortMax, config.DefaultHttpPortMax),
		Loopback:    config.Bool(l, config.KeyHttpLoopback, false),
		BindAddress: config.String(l, config.KeyHttpBind, ""),
		UseTLS:      config.Bool(l, config.KeyUseHttps, false),
		CertPath:    config.String(l, config.KeyServerCert, config.DefaultServerCert),
		WSTimeout:   time.Duration(config.Int(l, config.KeyHttpWSTimeout, config.DefaultHttpWSTimeout)) * time.Millisecond,
	}
}

func (c ServerConfig) rangeValid() bool {
	return c.MinPort > 0 && c.MaxPort > c.MinPort
}

// Attempts returns how many bind attempts EnsureServer makes.
func (c ServerConfig) Attempts() int {
	n := c.MaxPort - c.MinPort
	if n > maxBindAttempts {
		n = maxBindAttempts
	}
	if n < 1 && c.FixedPort > 0 {
		n = 1
	}
	return n
}

// Validate reports configuration errors that make binding impossible.
func (c ServerConfig) Validate() error {
	if c.FixedPort < 0 {
		return errors.New(errors.CodeConfiguration).
			WithDetailf("HttpPort is %d; real HTTP server creation is disabled", c.FixedPort)
	}
	if c.FixedPort == 0 && !c.rangeValid() {
		return errors.New(errors.CodeConfiguration).
			WithDetailf("wrong HTTP port range [%d, %d)", c.MinPort, c.MaxPort).
			WithSuggestion("Check WebGui.HttpPortMin/HttpPortMax: min must be positive and below max")
	}
	if c.UseTLS && c.CertPath == "" {
		return errors.New(errors.CodeConfiguration).
			WithDetail("UseHttps is enabled but ServerCert is empty")
	}
	return nil
}

// tlsConfig loads the certificate when TLS is enabled. The PEM file holds
// both the certificate and its private key.
func (c ServerConfig) tlsConfig() (*tls.Config, error) {
	if !c.UseTLS {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertPath, c.CertPath)
	if err != nil {
		return nil, errors.New(errors.CodeConfiguration).
			WithDetailf("cannot load server certificate %s", c.CertPath).
			Wrap(err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

// EngineSpec describes one bind request for the embedded server.
type EngineSpec struct {
	TLS       bool
	Port      int
	WSTimeout time.Duration
	Loopback  bool
	Bind      string
	CertPath  string
}

func (c ServerConfig) engineSpec(port int) EngineSpec {
	return EngineSpec{
		TLS:       c.UseTLS,
		Port:      port,
		WSTimeout: c.WSTimeout,
		Loopback:  c.Loopback,
		Bind:      c.BindAddress,
		CertPath:  c.CertPath,
	}
}

// Scheme returns http or https.
func (s EngineSpec) Scheme() string {
	if s.TLS {
		return "https"
	}
	return "http"
}

// String renders the spec as "http:8088?websocket_timeout=10000&loopback".
func (s EngineSpec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d?websocket_timeout=%d", s.Scheme(), s.Port, s.WSTimeout.Milliseconds())
	switch {
	case s.Loopback:
		b.WriteString("&loopback")
	case s.Bind != "":
		b.WriteString("&bind=")
		b.WriteString(s.Bind)
	}
	if s.TLS {
		b.WriteString("&ssl_cert=")
		b.WriteString(s.CertPath)
	}
	return b.String()
}

// ListenAddr returns the host:port the listener binds to.
func (s EngineSpec) ListenAddr() string {
	port := strconv.Itoa(s.Port)
	switch {
	case s.Loopback:
		return "127.0.0.1:" + port
	case s.Bind != "":
		return s.Bind + ":" + port
	}
	return ":" + port
}

// URL returns the scheme://host:port prefix of remote window URLs.
func (s EngineSpec) URL() string {
	host := "localhost"
	if !s.Loopback && s.Bind != "" {
		host = s.Bind
	}
	return s.Scheme() + "://" + host + ":" + strconv.Itoa(s.Port)
}

// EnsureServer creates the embedded server if needed. With requireNetwork
// it also binds a real listener and returns the cached scheme://host:port
// address; the first successful bind is kept for the life of the manager.
func (m *Manager) EnsureServer(ctx context.Context, requireNetwork bool) (addr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureHandleLocked()
	if !requireNetwork || m.addr != "" {
		return m.addr, nil
	}

	ctx, span := m.startSpan(ctx, "webwin.EnsureServer")
	defer func() { endSpan(span, err) }()

	cfg := ReadServerConfig(m.config)
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	tlsCfg, err := cfg.tlsConfig()
	if err != nil {
		return "", err
	}

	attempts := cfg.Attempts()
	port := cfg.FixedPort
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return "", errors.New(errors.CodeBindExhausted).Wrap(ctx.Err())
		}
		if port == 0 {
			if !cfg.rangeValid() {
				return "", errors.New(errors.CodeConfiguration).
					WithDetailf("port %d is busy and range [%d, %d) is invalid", cfg.FixedPort, cfg.MinPort, cfg.MaxPort)
			}
			port = cfg.MinPort + m.rand(cfg.MaxPort-cfg.MinPort)
		}

		spec := cfg.engineSpec(port)
		if err := m.server.Listen(spec, tlsCfg); err != nil {
			m.metrics.bindAttempt(false)
			m.logger.Debug("bind attempt failed", "engine", spec.String(), "error", err)
			port = 0
			continue
		}

		m.metrics.bindAttempt(true)
		m.addr = spec.URL()
		span.SetAttributes(attribute.String("webwin.addr", m.addr), attribute.Int("webwin.attempts", i+1))
		m.logger.Info("http server listening", "addr", m.addr, "engine", spec.String())
		return m.addr, nil
	}

	return "", errors.New(errors.CodeBindExhausted).
		WithDetailf("%d attempts in range [%d, %d) failed", attempts, cfg.MinPort, cfg.MaxPort)
}

// ensureHandleLocked creates the unbound server. m.mu must be held.
func (m *Manager) ensureHandleLocked() *Server {
	if m.server == nil {
		m.server = newServer(m.base, m.logger)
		if m.listen != nil {
			m.server.listen = m.listen
		}
	}
	return m.server
}
