// Package metrics provides Prometheus metrics for dataset loads, report
// generation and the dashboard HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrpulse"

// Metrics holds all Prometheus metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	datasetLoads     *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	reportsTotal     *prometheus.CounterVec
	reportDuration   prometheus.Histogram
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewMetrics creates metrics registered on reg. A nil reg gets a fresh
// registry, so tests and multiple servers never collide.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		datasetLoads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_loads_total",
				Help:      "Dataset loads by outcome",
			},
			[]string{"result"},
		),
		loadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dataset_load_duration_seconds",
				Help:      "Time spent reading and parsing the dataset",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		cacheHits: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_cache_hits_total",
				Help:      "Dataset requests served from the cache",
			},
		),
		cacheMisses: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_cache_misses_total",
				Help:      "Dataset requests that required a load",
			},
		),
		reportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Reports generated by outcome",
			},
			[]string{"result"},
		),
		reportDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_duration_seconds",
				Help:      "Time spent computing KPIs, tables and charts",
				Buckets:   prometheus.DefBuckets,
			},
		),
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		requestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
	}
}

// ObserveCacheHit counts a dataset served from the cache.
func (m *Metrics) ObserveCacheHit() { m.cacheHits.Inc() }

// ObserveCacheMiss counts a dataset request that needed a load.
func (m *Metrics) ObserveCacheMiss() { m.cacheMisses.Inc() }

// ObserveLoad records one dataset load.
func (m *Metrics) ObserveLoad(duration time.Duration, err error) {
	m.datasetLoads.WithLabelValues(result(err)).Inc()
	m.loadDuration.Observe(duration.Seconds())
}

// ObserveReport records one report generation.
func (m *Metrics) ObserveReport(duration time.Duration, err error) {
	m.reportsTotal.WithLabelValues(result(err)).Inc()
	m.reportDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records metrics for an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncRequestsInFlight increments the in-flight requests gauge.
func (m *Metrics) IncRequestsInFlight() { m.requestsInFlight.Inc() }

// DecRequestsInFlight decrements the in-flight requests gauge.
func (m *Metrics) DecRequestsInFlight() { m.requestsInFlight.Dec() }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
