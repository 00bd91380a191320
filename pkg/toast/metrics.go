package toast

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dismiss reasons recorded in metrics and logs.
const (
	ReasonTimeout  = "timeout"
	ReasonUser     = "user"
	ReasonOverflow = "overflow"
	ReasonClose    = "close"
)

// MetricsConfig names and registers the toast collectors.
type MetricsConfig struct {
	// Namespace prefixes every toast metric name (default: "toaster").
	Namespace string

	// Subsystem sits between the namespace and the metric name, e.g.
	// "ui" gives toaster_ui_toasts_active.
	Subsystem string

	// ConstLabels are attached to every toast series, typically to tell
	// notifiers in one process apart.
	ConstLabels prometheus.Labels

	// Buckets bound the promise settle-time histogram in seconds
	// (default: prometheus.DefBuckets).
	Buckets []float64

	// Registry receives the collectors (default: prometheus.DefaultRegisterer).
	// Tests pass a fresh prometheus.NewRegistry to avoid duplicate
	// registration.
	Registry prometheus.Registerer
}

// MetricsOption adjusts a MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace replaces the "toaster" prefix.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem inserts subsystem into every toast metric name.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels labels every toast series.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the promise settle-time buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry registers the toast collectors with registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "toaster",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for a notifier. A nil *Metrics
// records nothing.
type Metrics struct {
	created           *prometheus.CounterVec
	dismissed         *prometheus.CounterVec
	active            prometheus.Gauge
	settled           *prometheus.CounterVec
	settleDuration    prometheus.Histogram
	formatterFailures prometheus.Counter
}

// NewMetrics registers the toast collectors.
//
// Metrics collected:
//   - toaster_toasts_created_total: toasts shown, by kind
//   - toaster_toasts_dismissed_total: dismissals, by reason
//   - toaster_toasts_active: toasts currently in the stack
//   - toaster_promises_settled_total: promise toasts settled, by outcome
//   - toaster_promise_settle_seconds: time from creation to settlement
//   - toaster_formatter_failures_total: formatter errors and panics
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_created_total",
			Help:        "Total number of toasts shown",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		dismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_dismissed_total",
			Help:        "Total number of toast dismissals",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "toasts_active",
			Help:        "Number of toasts currently in the stack",
			ConstLabels: config.ConstLabels,
		}),

		settled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "promises_settled_total",
			Help:        "Total number of settled promise toasts",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		settleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "promise_settle_seconds",
			Help:        "Time from promise toast creation to settlement",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		formatterFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "formatter_failures_total",
			Help:        "Total number of promise formatter failures",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordCreated(kind Kind) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(string(kind)).Inc()
	m.active.Inc()
}

func (m *Metrics) recordDismissed(reason string) {
	if m == nil {
		return
	}
	m.dismissed.WithLabelValues(reason).Inc()
}

func (m *Metrics) recordRemoved() {
	if m == nil {
		return
	}
	m.active.Dec()
}

func (m *Metrics) recordSettled(outcome Kind, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.settled.WithLabelValues(string(outcome)).Inc()
	m.settleDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) recordFormatterFailure() {
	if m == nil {
		return
	}
	m.formatterFailures.Inc()
}
