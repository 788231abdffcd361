package webwin

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics of a manager.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "webdisplay").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for WaitFor durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures manager metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "webdisplay",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a manager. A nil *Metrics
// records nothing.
type Metrics struct {
	windowsCreated   prometheus.Counter
	windowsActive    prometheus.Gauge
	showsTotal       *prometheus.CounterVec
	bindAttempts     *prometheus.CounterVec
	processesSpawned prometheus.Counter
	processesHalted  prometheus.Counter
	connections      prometheus.Gauge
	waitDuration     *prometheus.HistogramVec
}

// NewMetrics registers the manager collectors.
//
// Metrics collected:
//   - webdisplay_windows_created_total: Counter of created windows
//   - webdisplay_windows_active: Gauge of windows not yet destroyed
//   - webdisplay_shows_total: Counter of Show calls by mode and status
//   - webdisplay_bind_attempts_total: Counter of port bind attempts by result
//   - webdisplay_processes_spawned_total: Counter of directly spawned clients
//   - webdisplay_processes_halted_total: Counter of killed clients
//   - webdisplay_connections_active: Gauge of open client connections
//   - webdisplay_wait_duration_seconds: Histogram of WaitFor durations by result
//
// Registering twice on the same registry panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		windowsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "windows_created_total",
			Help:        "Total number of windows created",
			ConstLabels: config.ConstLabels,
		}),

		windowsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "windows_active",
			Help:        "Number of windows not yet destroyed",
			ConstLabels: config.ConstLabels,
		}),

		showsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "shows_total",
			Help:        "Total number of Show calls",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "status"}),

		bindAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bind_attempts_total",
			Help:        "Total number of HTTP server bind attempts",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		processesSpawned: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "processes_spawned_total",
			Help:        "Total number of display clients spawned directly",
			ConstLabels: config.ConstLabels,
		}),

		processesHalted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "processes_halted_total",
			Help:        "Total number of display clients killed",
			ConstLabels: config.ConstLabels,
		}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connections_active",
			Help:        "Number of open client WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),

		waitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "wait_duration_seconds",
			Help:        "Duration of WaitFor loops",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"result"}),
	}
}

func (m *Metrics) windowCreated() {
	if m == nil {
		return
	}
	m.windowsCreated.Inc()
	m.windowsActive.Inc()
}

func (m *Metrics) windowDestroyed() {
	if m == nil {
		return
	}
	m.windowsActive.Dec()
}

func (m *Metrics) show(mode string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if code := Code(err); code != "" {
			status = code
		}
	}
	m.showsTotal.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) bindAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "busy"
	if ok {
		result = "bound"
	}
	m.bindAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) processSpawned() {
	if m == nil {
		return
	}
	m.processesSpawned.Inc()
}

func (m *Metrics) processHalted() {
	if m == nil {
		return
	}
	m.processesHalted.Inc()
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) connectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

func (m *Metrics) waitObserved(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.waitDuration.WithLabelValues(result).Observe(d.Seconds())
}
