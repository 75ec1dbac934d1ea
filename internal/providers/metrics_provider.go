package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
	"trd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCacheInvalidations()
	IncCyclesTotal(result string)
	ObserveCycleDuration(duration time.Duration)
	IncSourceFetch(source, status string)
	SetSchedulerRunning(running bool)
}

// BufferSizer reports the number of fetch metric records held in memory.
type BufferSizer interface {
	Len() int
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheInvalidations prometheus.Counter
	cyclesTotal        *prometheus.CounterVec
	cycleDuration      prometheus.Histogram
	sourceFetches      *prometheus.CounterVec
	schedulerRunning   prometheus.Gauge
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

func (m *MetricsProvider) IncCacheInvalidations() {
	m.cacheInvalidations.Inc()
}

func (m *MetricsProvider) IncCyclesTotal(result string) {
	m.cyclesTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveCycleDuration(duration time.Duration) {
	m.cycleDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSourceFetch(source, status string) {
	m.sourceFetches.WithLabelValues(source, status).Inc()
}

func (m *MetricsProvider) SetSchedulerRunning(running bool) {
	if running {
		m.schedulerRunning.Set(1)
		return
	}
	m.schedulerRunning.Set(0)
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

func NewMetricsProvider(conf *structures.Config, buffer BufferSizer) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trd_cache_hits_total",
			Help: "Total number of derived view cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trd_cache_misses_total",
			Help: "Total number of derived view cache misses",
		}),

		cacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trd_cache_invalidations_total",
			Help: "Total number of derived view cache invalidations",
		}),

		cyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trd_cycles_total",
			Help: "Total number of ingestion cycles by result",
		}, []string{"result"}),

		cycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trd_cycle_duration_seconds",
			Help:    "Duration of ingestion cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),

		sourceFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trd_source_fetch_total",
			Help: "Total number of per-source fetch attempts by status",
		}, []string{"source", "status"}),

		schedulerRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "trd_scheduler_running",
			Help: "1 when the periodic ingestion loop is active",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trd_fetch_metrics_buffer_size",
		Help: "Current number of fetch metric records held in memory",
	}, func() float64 {
		return float64(buffer.Len())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCacheInvalidations()                           {}
func (n *noopMetrics) IncCyclesTotal(_ string)                          {}
func (n *noopMetrics) ObserveCycleDuration(_ time.Duration)             {}
func (n *noopMetrics) IncSourceFetch(_, _ string)                       {}
func (n *noopMetrics) SetSchedulerRunning(_ bool)                       {}
