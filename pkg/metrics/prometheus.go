// Package metrics provides Prometheus metrics for the mercato transfer engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset
	recordsLoaded        *prometheus.CounterVec
	datasetRecords       prometheus.Gauge
	registryClubs        prometheus.Gauge
	snapshotLoads        *prometheus.CounterVec
	snapshotSaves        *prometheus.CounterVec
	snapshotLastUnix     prometheus.Gauge
	snapshotLastDuration prometheus.Gauge

	// Matching
	resolutions          *prometheus.CounterVec
	matcherCacheHits     prometheus.Counter
	matcherCacheMisses   prometheus.Counter
	matcherCacheSize     prometheus.Gauge
	approximateLatency   prometheus.Histogram
	reconcileDuration    prometheus.Histogram
	analyticsQueries     *prometheus.CounterVec
	analyticsLatency     *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mercato",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.recordsLoaded = m.counterVec("records_loaded_total", "Transfer records loaded by source", "source")
	m.datasetRecords = m.gauge("dataset_records", "Transfer records in the active dataset")
	m.registryClubs = m.gauge("registry_clubs", "Canonical clubs in the registry")
	m.snapshotLoads = m.counterVec("snapshot_loads_total", "Snapshot load attempts by outcome", "outcome")
	m.snapshotSaves = m.counterVec("snapshot_saves_total", "Snapshot save attempts by outcome", "outcome")
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix timestamp of the last snapshot written")
	m.snapshotLastDuration = m.gauge("snapshot_last_duration_milliseconds", "Duration of the last snapshot write in milliseconds")

	m.resolutions = m.counterVec("resolutions_total", "Counterparty resolutions by matcher stage", "stage")
	m.matcherCacheHits = m.counter("matcher_cache_hits_total", "Name matcher cache hits")
	m.matcherCacheMisses = m.counter("matcher_cache_misses_total", "Name matcher cache misses")
	m.matcherCacheSize = m.gauge("matcher_cache_size", "Distinct names held by the matcher cache")
	m.approximateLatency = m.histogram("approximate_search_latency_milliseconds",
		"Latency of approximate registry scans in milliseconds", m.histogramBuckets)
	m.reconcileDuration = m.histogram("reconciliation_duration_milliseconds",
		"Duration of a full reconciliation pass in milliseconds",
		[]float64{10, 50, 100, 500, 1000, 5000, 10000, 30000, 60000, 300000})
	m.analyticsQueries = m.counterVec("analytics_queries_total", "Analytics queries by operation", "operation")
	m.analyticsLatency = m.histogramVec("analytics_latency_milliseconds", "Analytics query latency in milliseconds", "operation")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.queueSize = m.gauge("queue_size", "Current size of the resolution queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue errors")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds",
		"Queue processing latency in milliseconds", m.histogramBuckets)

	m.workerActiveCount = m.gauge("worker_active_count", "Number of active workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Worker processing latency in milliseconds", m.histogramBuckets)
	m.workerErrorRate = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Dataset Metrics Functions.

// RecordRecordsLoaded adds n records loaded from source ("csv" or "snapshot").
func RecordRecordsLoaded(source string, n int) {
	globalManager.recordsLoaded.WithLabelValues(source).Add(float64(n))
}

// UpdateDatasetRecords sets the size of the active dataset.
func UpdateDatasetRecords(n int) {
	globalManager.datasetRecords.Set(float64(n))
}

// UpdateRegistryClubs sets the number of canonical clubs.
func UpdateRegistryClubs(n int) {
	globalManager.registryClubs.Set(float64(n))
}

// RecordSnapshotLoad counts a snapshot load with outcome "ok", "missing" or "error".
func RecordSnapshotLoad(outcome string) {
	globalManager.snapshotLoads.WithLabelValues(outcome).Inc()
}

// RecordSnapshotSave counts a snapshot write and, on success, its timing.
func RecordSnapshotSave(outcome string, unix int64, durationMs float64) {
	globalManager.snapshotSaves.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		globalManager.snapshotLastUnix.Set(float64(unix))
		globalManager.snapshotLastDuration.Set(durationMs)
	}
}

// Matching Metrics Functions.

// RecordResolution counts one record resolved at the given matcher stage.
func RecordResolution(stage string) {
	globalManager.resolutions.WithLabelValues(stage).Inc()
}

// RecordMatcherCacheHit increments the matcher cache hit counter.
func RecordMatcherCacheHit() {
	globalManager.matcherCacheHits.Inc()
}

// RecordMatcherCacheMiss increments the matcher cache miss counter.
func RecordMatcherCacheMiss() {
	globalManager.matcherCacheMisses.Inc()
}

// UpdateMatcherCacheSize sets the matcher cache size.
func UpdateMatcherCacheSize(size int) {
	globalManager.matcherCacheSize.Set(float64(size))
}

// RecordApproximateSearchLatency records one approximate scan.
func RecordApproximateSearchLatency(latencyMs float64) {
	globalManager.approximateLatency.Observe(latencyMs)
}

// RecordReconciliationDuration records a reconciliation pass duration.
func RecordReconciliationDuration(durationMs float64) {
	globalManager.reconcileDuration.Observe(durationMs)
}

// RecordAnalyticsQuery counts an analytics operation and its latency.
func RecordAnalyticsQuery(operation string, latencyMs float64) {
	globalManager.analyticsQueries.WithLabelValues(operation).Inc()
	globalManager.analyticsLatency.WithLabelValues(operation).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
