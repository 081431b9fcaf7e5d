package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one service. Each service owns a registry
// so tests can build several without duplicate registration panics.
type Metrics struct {
	service  string
	registry *prometheus.Registry

	requestCount      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	inferenceCount    *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	cacheHits         *prometheus.CounterVec
}

func New(service string) *Metrics {
	m := &Metrics{
		service:  service,
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"service", "path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"service", "path"},
		),
		inferenceCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inference_total",
				Help: "Predictions served, by predicted label",
			}, []string{"service", "label"},
		),
		inferenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inference_duration_seconds",
				Help:    "Time spent in preprocessing and model execution",
				Buckets: prometheus.DefBuckets,
			}, []string{"service"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "result_cache_hits_total",
				Help: "Predictions answered from the result cache",
			}, []string{"service"},
		),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.inferenceCount,
		m.inferenceDuration,
		m.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveInference(label string, d time.Duration) {
	m.inferenceCount.WithLabelValues(m.service, label).Inc()
	m.inferenceDuration.WithLabelValues(m.service).Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	m.cacheHits.WithLabelValues(m.service).Inc()
}

func (m *Metrics) ObserveRequest(r *http.Request, status int, d time.Duration) {
	path := routePattern(r)
	m.requestCount.WithLabelValues(m.service, path, r.Method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(m.service, path).Observe(d.Seconds())
}

// routePattern keeps label cardinality bounded to registered routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
