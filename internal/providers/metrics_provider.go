package providers

import (
	"statcache/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncStoreOps(kind, backend, op, outcome string)
	ObserveStoreDuration(backend, op string, duration time.Duration)
	SetStoreConnected(connected bool)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeConnected  prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncStoreOps(kind, backend, op, outcome string) {
	m.storeOps.WithLabelValues(kind, backend, op, outcome).Inc()
}

func (m *MetricsProvider) ObserveStoreDuration(backend, op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetStoreConnected(connected bool) {
	if connected {
		m.storeConnected.Set(1)
		return
	}
	m.storeConnected.Set(0)
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statcache_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statcache_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statcache_response_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statcache_response_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		storeOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statcache_store_operations_total",
			Help: "Record reads and writes by kind, backend and outcome",
		}, []string{"kind", "backend", "op", "outcome"}),

		storeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statcache_store_operation_duration_seconds",
			Help:    "Duration of backend operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "op"}),

		storeConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "statcache_store_connected",
			Help: "1 when the persistent store is connected, 0 while on the in-memory fallback",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncStoreOps(_, _, _, _ string)                     {}
func (n *noopMetrics) ObserveStoreDuration(_, _ string, _ time.Duration) {}
func (n *noopMetrics) SetStoreConnected(_ bool)                          {}
