// Package prometheus wraps client_golang behind small interfaces so callers
// can record metrics without importing the client library, and so a disabled
// registry degrades to no-ops instead of nil checks.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
)

// MetricsCollector owns a registry and hands out metric vectors.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec is a labelled counter family.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter only goes up.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec is a labelled gauge family.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge moves both ways.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
}

// HistogramVec is a labelled histogram family.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram observes samples.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig configures NewMetricsCollector.
type CollectorConfig struct {
	Namespace               string
	Subsystem               string
	EnableProcessMetrics    bool
	EnableGoMetrics         bool
	DefaultHistogramBuckets []float64
	ConstLabels             map[string]string
}

type promCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector builds a collector on a private registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = prometheus.DefBuckets
	}

	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
	}
	return &promCollector{
		registry:   reg,
		config:     cfg,
		logger:     logger,
		registered: make(map[string]prometheus.Collector),
	}, nil
}

func (c *promCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// register returns the collector already registered under name, if any, so
// repeated registration of the same metric is harmless.
func (c *promCollector) register(name string, col prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fq := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.registered[fq]; ok {
		return existing, nil
	}
	if err := c.registry.Register(col); err != nil {
		return nil, err
	}
	c.registered[fq] = col
	return col, nil
}

func (c *promCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: name, Help: help, ConstLabels: c.config.ConstLabels,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("register counter", logging.String("name", name), logging.Err(err))
		return noopCounterVec{}
	}
	if v, ok := got.(*prometheus.CounterVec); ok {
		return counterVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "counter"))
	return noopCounterVec{}
}

func (c *promCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: name, Help: help, ConstLabels: c.config.ConstLabels,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("register gauge", logging.String("name", name), logging.Err(err))
		return noopGaugeVec{}
	}
	if v, ok := got.(*prometheus.GaugeVec); ok {
		return gaugeVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "gauge"))
	return noopGaugeVec{}
}

func (c *promCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.config.DefaultHistogramBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: name, Help: help, ConstLabels: c.config.ConstLabels, Buckets: buckets,
	}, labels)
	got, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("register histogram", logging.String("name", name), logging.Err(err))
		return noopHistogramVec{}
	}
	if v, ok := got.(*prometheus.HistogramVec); ok {
		return histogramVec{v}
	}
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("want", "histogram"))
	return noopHistogramVec{}
}

// ─────────────────────────────────────────────────────────────────────────────
// client_golang adapters
// ─────────────────────────────────────────────────────────────────────────────

type counterVec struct{ v *prometheus.CounterVec }

func (c counterVec) WithLabelValues(lvs ...string) Counter { return c.v.WithLabelValues(lvs...) }

type gaugeVec struct{ v *prometheus.GaugeVec }

func (g gaugeVec) WithLabelValues(lvs ...string) Gauge { return g.v.WithLabelValues(lvs...) }

type histogramVec struct{ v *prometheus.HistogramVec }

func (h histogramVec) WithLabelValues(lvs ...string) Histogram { return h.v.WithLabelValues(lvs...) }

// ─────────────────────────────────────────────────────────────────────────────
// No-op
// ─────────────────────────────────────────────────────────────────────────────

type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(...string) Counter { return noopMetric{} }

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(...string) Gauge { return noopMetric{} }

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Dec()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

type noopCollector struct{}

// NewNoopCollector returns a collector whose metrics discard every sample.
// Its handler answers 404.
func NewNoopCollector() MetricsCollector { return noopCollector{} }

func (noopCollector) RegisterCounter(string, string, ...string) CounterVec { return noopCounterVec{} }
func (noopCollector) RegisterGauge(string, string, ...string) GaugeVec     { return noopGaugeVec{} }
func (noopCollector) RegisterHistogram(string, string, []float64, ...string) HistogramVec {
	return noopHistogramVec{}
}
func (noopCollector) Handler() http.Handler { return http.NotFoundHandler() }

// ─────────────────────────────────────────────────────────────────────────────
// Timer
// ─────────────────────────────────────────────────────────────────────────────

// Timer measures one duration into a Histogram, in seconds.
type Timer struct {
	histogram Histogram
	start     time.Time
}

// NewTimer starts a timer.
func NewTimer(h Histogram) *Timer { return &Timer{histogram: h, start: time.Now()} }

// ObserveDuration records the elapsed time and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.Observe(d.Seconds())
	}
	return d
}

//Personal.AI order the ending
