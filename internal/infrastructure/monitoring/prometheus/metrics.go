package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics groups the service's named metric instruments.  It is created
// once at startup and shared across the application and interface layers.
type AppMetrics struct {
	refreshTotal      *prometheus.CounterVec
	refreshDuration   *prometheus.HistogramVec
	staleDropsTotal   *prometheus.CounterVec
	sourceFetchTotal  *prometheus.CounterVec
	transitionTotal   *prometheus.CounterVec
	itemsGauge        *prometheus.GaugeVec
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewAppMetrics registers the service metrics on the collector.
func NewAppMetrics(c *MetricsCollector) *AppMetrics {
	return &AppMetrics{
		refreshTotal: c.Counter("compliance_refresh_total",
			"Completed compliance refresh cycles by outcome.", "outcome"),
		refreshDuration: c.Histogram("compliance_refresh_duration_seconds",
			"Wall time of a compliance refresh cycle."),
		staleDropsTotal: c.Counter("compliance_stale_refresh_drops_total",
			"Refresh results discarded because a newer refresh superseded them."),
		sourceFetchTotal: c.Counter("compliance_source_fetch_total",
			"Upstream source fetches by source and outcome.", "source", "outcome"),
		transitionTotal: c.Counter("compliance_transition_total",
			"Mark-as-done transition attempts by outcome.", "outcome"),
		itemsGauge: c.Gauge("compliance_items",
			"Items currently held per lifecycle status.", "status"),
		httpRequestsTotal: c.Counter("http_requests_total",
			"HTTP requests by method, route and status code.", "method", "route", "status"),
		httpDuration: c.Histogram("http_request_duration_seconds",
			"HTTP request latency by method and route.", "method", "route"),
	}
}

// RefreshCompleted records a finished refresh cycle and its duration.
func (m *AppMetrics) RefreshCompleted(outcome string, d time.Duration) {
	m.refreshTotal.WithLabelValues(outcome).Inc()
	m.refreshDuration.WithLabelValues().Observe(d.Seconds())
}

// StaleRefreshDropped records a refresh result discarded by a newer request.
func (m *AppMetrics) StaleRefreshDropped() {
	m.staleDropsTotal.WithLabelValues().Inc()
}

// SourceFetch records one upstream fetch attempt.
func (m *AppMetrics) SourceFetch(source, outcome string) {
	m.sourceFetchTotal.WithLabelValues(source, outcome).Inc()
}

// Transition records one mark-as-done attempt.
func (m *AppMetrics) Transition(outcome string) {
	m.transitionTotal.WithLabelValues(outcome).Inc()
}

// SetItemCount publishes the number of items held for one lifecycle status.
func (m *AppMetrics) SetItemCount(status string, n int) {
	m.itemsGauge.WithLabelValues(status).Set(float64(n))
}

// HTTPRequest records one served HTTP request.
func (m *AppMetrics) HTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
