package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Resolution metrics
	ResolutionsTotal    *prometheus.CounterVec
	ResolutionDuration  prometheus.Histogram
	RemoteQueryDuration prometheus.Histogram

	// Artifact metrics
	ArtifactInspectionsTotal prometheus.Counter
	ArtifactCacheHitsTotal   prometheus.Counter
	ArtifactCacheMissesTotal prometheus.Counter
	SyncObjectsTotal         *prometheus.CounterVec

	// Conflict metrics
	ConflictsTotal         prometheus.Counter
	ConflictFallbacksTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics. A nil registry
// gets a fresh private one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bindle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindle_resolutions_total",
				Help: "Total number of dependency resolution runs",
			},
			[]string{"status"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bindle_resolution_duration_seconds",
				Help:    "End-to-end dependency resolution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		RemoteQueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bindle_remote_query_duration_seconds",
				Help:    "Batched commit query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ArtifactInspectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bindle_artifact_inspections_total",
				Help: "Total number of artifact metadata inspections",
			},
		),
		ArtifactCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bindle_artifact_cache_hits_total",
				Help: "Artifact metadata cache hits",
			},
		),
		ArtifactCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bindle_artifact_cache_misses_total",
				Help: "Artifact metadata cache misses",
			},
		),
		SyncObjectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindle_sync_objects_total",
				Help: "Index sync object operations by action",
			},
			[]string{"action"},
		),
		ConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bindle_conflicts_total",
				Help: "Internal packages required at more than one version",
			},
		),
		ConflictFallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bindle_conflict_fallbacks_total",
				Help: "Conflicts resolved by deterministic fallback instead of a homonymous branch",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.RemoteQueryDuration,
		m.ArtifactInspectionsTotal,
		m.ArtifactCacheHitsTotal,
		m.ArtifactCacheMissesTotal,
		m.SyncObjectsTotal,
		m.ConflictsTotal,
		m.ConflictFallbacksTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveResolution records one resolution run.
func (m *Metrics) ObserveResolution(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(status).Inc()
	m.ResolutionDuration.Observe(duration.Seconds())
}

// ObserveRemoteQuery records the batched commit query latency.
func (m *Metrics) ObserveRemoteQuery(duration time.Duration) {
	if m == nil {
		return
	}
	m.RemoteQueryDuration.Observe(duration.Seconds())
}

// ObserveInspection records one artifact inspection together with whether the
// metadata came from the cache.
func (m *Metrics) ObserveInspection(cacheHit bool) {
	if m == nil {
		return
	}
	m.ArtifactInspectionsTotal.Inc()
	if cacheHit {
		m.ArtifactCacheHitsTotal.Inc()
	} else {
		m.ArtifactCacheMissesTotal.Inc()
	}
}

// ObserveSync records one sync object operation ("download", "delete" or "skip").
func (m *Metrics) ObserveSync(action string) {
	if m == nil {
		return
	}
	m.SyncObjectsTotal.WithLabelValues(action).Inc()
}

// ObserveConflict records one version conflict and whether it degraded to the
// deterministic fallback.
func (m *Metrics) ObserveConflict(fallback bool) {
	if m == nil {
		return
	}
	m.ConflictsTotal.Inc()
	if fallback {
		m.ConflictFallbacksTotal.Inc()
	}
}

// ObserveHTTPRequest records an HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
