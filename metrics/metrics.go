package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation results.
const (
	ResultSuccess    = "success"
	ResultEmptyInput = "empty_input"
	ResultFailed     = "failed"
)

// Metrics holds the service collectors on a private registry. All methods
// are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	generationsTotal *prometheus.CounterVec
	resultSize       prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anagram_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anagram_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anagram_generations_total",
				Help: "Total number of anagram generations by result (success, empty_input, failed).",
			},
			[]string{"result"},
		),
		resultSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "anagram_generation_results",
				Help:    "Number of anagrams returned per successful generation.",
				Buckets: []float64{1, 2, 3},
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.generationsTotal,
		m.resultSize,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncGeneration counts one generation with the given result.
func (m *Metrics) IncGeneration(result string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(result).Inc()
}

// ObserveResultSize records how many anagrams a successful generation
// returned.
func (m *Metrics) ObserveResultSize(n int) {
	if m == nil {
		return
	}
	m.resultSize.Observe(float64(n))
}
