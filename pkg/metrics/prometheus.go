// Package metrics provides Prometheus metrics for the draftboard pipeline and API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for draftboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline
	runs                *prometheus.CounterVec
	rowsLoaded          *prometheus.CounterVec
	sourceIssues        *prometheus.CounterVec
	stageDuration       *prometheus.HistogramVec
	computationsSkipped *prometheus.CounterVec
	recordsEnriched     prometheus.Gauge
	recordsDropped      prometheus.Counter
	tierSize            *prometheus.GaugeVec

	// Snapshots
	snapshotWrites       prometheus.Counter
	snapshotWriteLatency prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	snapshotQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftboard",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = m.counterVec("runs_total", "Pipeline runs by outcome", "outcome")
	m.rowsLoaded = m.counterVec("rows_loaded_total", "Source rows loaded per season", "season")
	m.sourceIssues = m.counterVec("source_issues_total", "Non-fatal source problems by kind", "kind")
	m.stageDuration = m.histogramVec("stage_duration_milliseconds", "Duration of each pipeline stage", "stage")
	m.computationsSkipped = m.counterVec("computations_skipped_total", "Per-entity or per-season computations that failed and were nulled", "stage")
	m.recordsEnriched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_enriched",
		Help:        "Records in the latest enriched table",
		ConstLabels: m.customLabels,
	})
	m.recordsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_dropped_unknown_role_total",
		Help:        "Records dropped because their role is unknown",
		ConstLabels: m.customLabels,
	})
	m.tierSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tier_size",
		Help:        "Records assigned to each tier in the latest evaluation",
		ConstLabels: m.customLabels,
	}, []string{"tier"})

	m.snapshotWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_writes_total",
		Help:        "Snapshots persisted",
		ConstLabels: m.customLabels,
	})
	m.snapshotWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_write_latency_milliseconds",
		Help:        "Snapshot write latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix timestamp of the last snapshot write",
		ConstLabels: m.customLabels,
	})
	m.snapshotQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_query_latency_milliseconds",
		Help:        "Snapshot read latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Current heap allocation in bytes",
		ConstLabels: m.customLabels,
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Current number of goroutines",
		ConstLabels: m.customLabels,
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		ConstLabels: m.customLabels,
	})
}

// RecordRun counts a pipeline run with outcome "ok" or "error".
func RecordRun(outcome string) {
	globalManager.runs.WithLabelValues(outcome).Inc()
}

// RecordRowsLoaded adds loaded rows for a season.
func RecordRowsLoaded(season string, n int) {
	globalManager.rowsLoaded.WithLabelValues(season).Add(float64(n))
}

// RecordSourceIssue counts a non-fatal source problem.
func RecordSourceIssue(kind string) {
	globalManager.sourceIssues.WithLabelValues(kind).Inc()
}

// RecordStageDuration records how long a stage took in milliseconds.
func RecordStageDuration(stage string, ms float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(ms)
}

// RecordSkipped adds skipped computations for a stage.
func RecordSkipped(stage string, n int) {
	if n > 0 {
		globalManager.computationsSkipped.WithLabelValues(stage).Add(float64(n))
	}
}

// UpdateRecordsEnriched sets the size of the latest enriched table.
func UpdateRecordsEnriched(n int) {
	globalManager.recordsEnriched.Set(float64(n))
}

// RecordDropped adds records dropped by the unknown role filter.
func RecordDropped(n int) {
	if n > 0 {
		globalManager.recordsDropped.Add(float64(n))
	}
}

// UpdateTierSize sets the size of one tier.
func UpdateTierSize(tier string, n int) {
	globalManager.tierSize.WithLabelValues(tier).Set(float64(n))
}

// RecordSnapshotWrite records a persisted snapshot.
func RecordSnapshotWrite(latencyMs float64, unix int64) {
	globalManager.snapshotWrites.Inc()
	globalManager.snapshotWriteLatency.Observe(latencyMs)
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordSnapshotQueryLatency records a snapshot read.
func RecordSnapshotQueryLatency(latencyMs float64) {
	globalManager.snapshotQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
