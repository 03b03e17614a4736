package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	tracesTotal         *prometheus.CounterVec
	traceDuration       *prometheus.HistogramVec
	staleResults        prometheus.Counter
}

// New creates a fresh registry with HTTP and trace metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracemap",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by tracemap",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracemap",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by tracemap",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	tracesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracemap",
		Name:      "traces_total",
		Help:      "Completed traces by outcome",
	}, []string{"outcome"})

	traceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracemap",
		Name:      "trace_duration_seconds",
		Help:      "Time from trace submission to response",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
	}, []string{"outcome"})

	staleResults := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tracemap",
		Name:      "stale_results_total",
		Help:      "Trace responses discarded because a newer trace superseded them",
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		tracesTotal,
		traceDuration,
		staleResults,
	)

	return &Metrics{
		registry:            registry,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
		tracesTotal:         tracesTotal,
		traceDuration:       traceDuration,
		staleResults:        staleResults,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// ObserveTrace counts a finished trace and records how long it took.
func (m *Metrics) ObserveTrace(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.tracesTotal.WithLabelValues(outcome).Inc()
	m.traceDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Metrics) IncStaleResult() {
	if m == nil {
		return
	}
	m.staleResults.Inc()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
