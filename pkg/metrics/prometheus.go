// Package metrics provides Prometheus metrics for the finesse state core.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Operation outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeNoOp  = "noop"
	OutcomeError = "error"
)

// Manager manages all Prometheus metrics for the finesse service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Store metrics
	storeOperations        *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
	storeVersion           *prometheus.GaugeVec

	// Boundary metrics
	boundaryCalls   *prometheus.CounterVec
	boundaryErrors  *prometheus.CounterVec
	boundaryLatency *prometheus.HistogramVec

	// Persistence metrics
	persistWrites *prometheus.CounterVec
	persistErrors *prometheus.CounterVec

	// Navigation metrics
	guardEvaluations prometheus.Counter
	guardRedirects   *prometheus.CounterVec
	fetchDeduped     prometheus.Counter

	// Event queue metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueDropped           prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	wsClients  prometheus.Gauge
	wsMessages prometheus.Counter

	errorsByComponent *prometheus.CounterVec

	// System metrics
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
		namespace:        "finesse",
		subsystem:        "core",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.storeOperations = auto.NewCounterVec(
		m.counterOpts("store_operations_total", "Store operations by store, operation and outcome"),
		[]string{"store", "op", "outcome"},
	)
	m.storeOperationDuration = auto.NewHistogramVec(
		m.histogramOpts("store_operation_duration_milliseconds", "Store operation duration in milliseconds"),
		[]string{"store", "op"},
	)
	m.storeVersion = auto.NewGaugeVec(
		m.gaugeOpts("store_version", "Current state version per store"),
		[]string{"store"},
	)

	m.boundaryCalls = auto.NewCounterVec(
		m.counterOpts("boundary_calls_total", "Data-access boundary calls by operation"),
		[]string{"op"},
	)
	m.boundaryErrors = auto.NewCounterVec(
		m.counterOpts("boundary_errors_total", "Data-access boundary failures by operation"),
		[]string{"op"},
	)
	m.boundaryLatency = auto.NewHistogramVec(
		m.histogramOpts("boundary_latency_milliseconds", "Data-access boundary latency in milliseconds"),
		[]string{"op"},
	)

	m.persistWrites = auto.NewCounterVec(
		m.counterOpts("persist_writes_total", "Snapshot writes by storage key"),
		[]string{"key"},
	)
	m.persistErrors = auto.NewCounterVec(
		m.counterOpts("persist_errors_total", "Snapshot read or write failures by storage key"),
		[]string{"key", "op"},
	)

	m.guardEvaluations = auto.NewCounter(
		m.counterOpts("guard_evaluations_total", "Navigation guard evaluations"),
	)
	m.guardRedirects = auto.NewCounterVec(
		m.counterOpts("guard_redirects_total", "Navigation guard redirects by target"),
		[]string{"target"},
	)
	m.fetchDeduped = auto.NewCounter(
		m.counterOpts("profile_fetch_deduped_total", "Profile fetches skipped because one was in flight"),
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the change-event queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum change-event queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Change events enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Change events dequeued"))
	m.queueDropped = auto.NewCounter(m.counterOpts("queue_dropped_total", "Change events dropped because the queue was full"))
	m.queueProcessingLatency = auto.NewHistogram(
		m.histogramOpts("queue_processing_latency_milliseconds", "Time from publish to dispatch in milliseconds"),
	)

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of event workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently dispatching an event"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Event dispatch latency in milliseconds"),
	)
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Event dispatch failures"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.wsClients = auto.NewGauge(m.gaugeOpts("ws_clients", "Connected WebSocket clients"))
	m.wsMessages = auto.NewCounter(m.counterOpts("ws_messages_total", "Messages written to WebSocket clients"))

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.customLabels,
	})
}

// Store metrics.

// RecordStoreOperation counts a finished store operation and its duration.
func RecordStoreOperation(store, op, outcome string, elapsed time.Duration) {
	globalManager.storeOperations.WithLabelValues(store, op, outcome).Inc()
	globalManager.storeOperationDuration.WithLabelValues(store, op).Observe(ms(elapsed))
}

// UpdateStoreVersion sets the current state version of a store.
func UpdateStoreVersion(store string, version uint64) {
	globalManager.storeVersion.WithLabelValues(store).Set(float64(version))
}

// Boundary metrics.

// RecordBoundaryCall counts a boundary call and its latency.
func RecordBoundaryCall(op string, elapsed time.Duration, err error) {
	globalManager.boundaryCalls.WithLabelValues(op).Inc()
	globalManager.boundaryLatency.WithLabelValues(op).Observe(ms(elapsed))
	if err != nil {
		globalManager.boundaryErrors.WithLabelValues(op).Inc()
	}
}

// Persistence metrics.

// RecordPersistWrite counts a snapshot write.
func RecordPersistWrite(key string) {
	globalManager.persistWrites.WithLabelValues(key).Inc()
}

// RecordPersistError counts a failed snapshot load or save.
func RecordPersistError(key, op string) {
	globalManager.persistErrors.WithLabelValues(key, op).Inc()
}

// Navigation metrics.

// RecordGuardEvaluation counts a guard evaluation.
func RecordGuardEvaluation() {
	globalManager.guardEvaluations.Inc()
}

// RecordGuardRedirect counts a redirect issued by the guard.
func RecordGuardRedirect(target string) {
	globalManager.guardRedirects.WithLabelValues(target).Inc()
}

// RecordFetchDeduped counts a profile fetch skipped as already in flight.
func RecordFetchDeduped() {
	globalManager.fetchDeduped.Inc()
}

// Queue metrics.

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
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueDropped increments the dropped-event counter.
func RecordQueueDropped() {
	globalManager.queueDropped.Inc()
}

// RecordQueueProcessingLatency records publish-to-dispatch latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker metrics.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records dispatch latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker errors counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// WebSocket metrics.

// UpdateWSClients sets the number of connected WebSocket clients.
func UpdateWSClients(count int) {
	globalManager.wsClients.Set(float64(count))
}

// RecordWSMessage counts a message written to a WebSocket client.
func RecordWSMessage() {
	globalManager.wsMessages.Inc()
}

// RecordErrorByComponent counts an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System metrics.

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

// CollectRuntime samples memory, goroutine and GC stats once.
func CollectRuntime() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	UpdateSystemMemoryUsage(mem.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if mem.NumGC > 0 {
		last := mem.PauseNs[(mem.NumGC+255)%256]
		RecordSystemGCPauseTime(float64(last) / float64(time.Millisecond))
	}
}

// StartRuntimeCollector samples runtime stats every refresh interval until ctx is done.
func StartRuntimeCollector(ctx context.Context) {
	interval := globalManager.refreshInterval
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			CollectRuntime()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
