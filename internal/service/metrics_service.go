package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crewpulse/crewpulse-api/internal/models"
)

const metricsNamespace = "crewpulse"

// Recompute results used as metric labels.
const (
	RecomputeSuccess = "success"
	RecomputeFailure = "failure"
)

// MetricsService owns the Prometheus registry and keeps running totals for the JSON summary.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Histogram
	cacheWrite        prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	recomputeTotal    *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	flaggedWorkers    *prometheus.GaugeVec

	cacheHitCount      uint64
	cacheMissCount     uint64
	requestCount       uint64
	requestNanos       uint64
	recomputeCount     uint64
	recomputeFailCount uint64
	recomputeNanos     uint64
}

// NewMetricsService registers the service collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cache_latency_seconds",
			Help:      "Latency for cache lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cache_write_seconds",
			Help:      "Latency for cache writes",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "Total cache misses",
		}),
		recomputeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "score_recomputes_total",
			Help:      "Worker score recomputations by trigger and result",
		}, []string{"trigger", "result"}),
		recomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "score_recompute_duration_seconds",
			Help:      "Duration of a single worker recompute including history reads and the snapshot write",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"trigger"}),
		flaggedWorkers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "flagged_workers",
			Help:      "Workers carrying each flag as of the last dashboard refresh",
		}, []string{"flag"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLatency, m.cacheWrite,
		m.cacheHits, m.cacheMisses, m.recomputeTotal, m.recomputeDuration, m.flaggedWorkers, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestNanos, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
		return
	}
	m.cacheMisses.Inc()
	atomic.AddUint64(&m.cacheMissCount, 1)
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordRecompute counts one worker recompute.
func (m *MetricsService) RecordRecompute(trigger, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.recomputeTotal.WithLabelValues(trigger, result).Inc()
	m.recomputeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	atomic.AddUint64(&m.recomputeCount, 1)
	atomic.AddUint64(&m.recomputeNanos, uint64(duration.Nanoseconds()))
	if result == RecomputeFailure {
		atomic.AddUint64(&m.recomputeFailCount, 1)
	}
}

// SetFlaggedWorkers publishes per-flag worker counts.
func (m *MetricsService) SetFlaggedWorkers(counts models.FlagCounts) {
	if m == nil {
		return
	}
	m.flaggedWorkers.WithLabelValues("needs-review").Set(float64(counts.NeedsReview))
	m.flaggedWorkers.WithLabelValues("terminate-recommended").Set(float64(counts.TerminateRecommended))
}

// Snapshot returns the running totals as a JSON friendly summary.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	recomputes := atomic.LoadUint64(&m.recomputeCount)

	summary := models.SystemMetrics{
		CacheHits:         hits,
		CacheMisses:       misses,
		RequestsTotal:     requests,
		Recomputes:        recomputes,
		RecomputeFailures: atomic.LoadUint64(&m.recomputeFailCount),
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
	if hits+misses > 0 {
		summary.CacheHitRatio = float64(hits) / float64(hits+misses)
	}
	if requests > 0 {
		summary.AverageRequestMs = float64(atomic.LoadUint64(&m.requestNanos)) / float64(requests) / float64(time.Millisecond)
	}
	if recomputes > 0 {
		summary.AverageRecomputeMs = float64(atomic.LoadUint64(&m.recomputeNanos)) / float64(recomputes) / float64(time.Millisecond)
	}
	return summary
}
