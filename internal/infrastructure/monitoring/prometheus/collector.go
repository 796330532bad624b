// Package prometheus wraps the Prometheus client with the small collector
// surface the rest of the service uses.  Every accessor degrades to a no-op
// collector when metrics are disabled, so call sites never nil-check.
package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector registers and serves the service's Prometheus metrics.
type MetricsCollector struct {
	mu        sync.Mutex
	enabled   bool
	namespace string
	registry  *prometheus.Registry

	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewMetricsCollector creates a collector under the given namespace.  When
// enabled is false every registration and observation is a no-op.
func NewMetricsCollector(namespace string, enabled bool) *MetricsCollector {
	c := &MetricsCollector{
		enabled:    enabled,
		namespace:  namespace,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
	if enabled {
		c.registry = prometheus.NewRegistry()
		c.registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *MetricsCollector) Handler() http.Handler {
	if !c.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Counter returns the counter vec registered under name, creating it on first
// use.
func (c *MetricsCollector) Counter(name, help string, labels ...string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.counters[name]; ok {
		return cv
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	if c.enabled {
		c.registry.MustRegister(cv)
	}
	c.counters[name] = cv
	return cv
}

// Gauge returns the gauge vec registered under name, creating it on first use.
func (c *MetricsCollector) Gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gv, ok := c.gauges[name]; ok {
		return gv
	}
	gv := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	if c.enabled {
		c.registry.MustRegister(gv)
	}
	c.gauges[name] = gv
	return gv
}

// Histogram returns the histogram vec registered under name, creating it on
// first use with the default buckets.
func (c *MetricsCollector) Histogram(name, help string, labels ...string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hv, ok := c.histograms[name]; ok {
		return hv
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
		Buckets:   prometheus.DefBuckets,
	}, labels)
	if c.enabled {
		c.registry.MustRegister(hv)
	}
	c.histograms[name] = hv
	return hv
}

// Timer observes elapsed time into a histogram when stopped.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer against the given observer.
func NewTimer(observer prometheus.Observer) *Timer {
	return &Timer{start: time.Now(), observer: observer}
}

// ObserveDuration records the elapsed seconds since the timer started.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(d.Seconds())
	}
	return d
}
