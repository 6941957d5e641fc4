// Package metrics defines the Prometheus collectors for docsearch and
// exposes a scrape handler.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/docsearch/discovery"
)

const namespace = "docsearch"

// Lookup outcomes recorded by ObserveLookup.
const (
	ResultHit      = "hit"
	ResultZero     = "zero_result"
	ResultDisabled = "disabled"
	ResultError    = "error"
)

// Metrics holds all collectors.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	LookupsTotal         *prometheus.CounterVec
	LookupResults        *prometheus.HistogramVec
	ReloadsTotal         *prometheus.CounterVec
	ReloadDuration       prometheus.Histogram
	IndexEntries         prometheus.Gauge
	IndexEnabled         prometheus.Gauge
	ToolCallsTotal       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses
// a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed.",
			},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Total lookups by operation and result (hit, zero_result, disabled, error).",
			},
			[]string{"operation", "result"},
		),
		LookupResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lookup_results",
				Help:      "Number of entries returned per lookup.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"operation"},
		),
		ReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_reloads_total",
				Help:      "Total index loads by status.",
			},
			[]string{"status"},
		),
		ReloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_reload_duration_seconds",
				Help:      "Index load latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		IndexEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_entries",
				Help:      "Number of entries in the current index snapshot.",
			},
		),
		IndexEnabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_enabled",
				Help:      "1 while a usable index is loaded, 0 while search is disabled.",
			},
		),
		ToolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mcp_tool_calls_total",
				Help:      "Total MCP tool calls by tool and status.",
			},
			[]string{"tool", "status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.LookupsTotal,
		m.LookupResults,
		m.ReloadsTotal,
		m.ReloadDuration,
		m.IndexEntries,
		m.IndexEnabled,
		m.ToolCallsTotal,
	)
	return m
}

// Handler returns the scrape handler for the registry m was built on.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveReload implements discovery.ReloadObserver. A failed reload after
// a successful one leaves the entry gauge and enabled flag untouched, since
// the previous snapshot is still served.
func (m *Metrics) ObserveReload(err error, elapsed time.Duration, entries int) {
	m.ReloadDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.ReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ReloadsTotal.WithLabelValues("ok").Inc()
	m.IndexEntries.Set(float64(entries))
	m.IndexEnabled.Set(1)
}

// ObserveLookup records one lookup of operation returning n entries.
func (m *Metrics) ObserveLookup(operation string, n int, err error) {
	result := ResultHit
	switch {
	case errors.Is(err, discovery.ErrSearchDisabled):
		result = ResultDisabled
	case err != nil:
		result = ResultError
	case n == 0:
		result = ResultZero
	}
	m.LookupsTotal.WithLabelValues(operation, result).Inc()
	if err == nil {
		m.LookupResults.WithLabelValues(operation).Observe(float64(n))
	}
}

// ObserveToolCall records one MCP tool call.
func (m *Metrics) ObserveToolCall(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

var _ discovery.ReloadObserver = (*Metrics)(nil)
