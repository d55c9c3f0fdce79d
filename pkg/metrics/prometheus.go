// Package metrics provides Prometheus metrics for the SEMA service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the SEMA service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Assessment metrics
	stakeholdersScored     prometheus.Counter
	topicsAssessed         prometheus.Counter
	responsesRecorded      prometheus.Counter
	aggregationLatency     prometheus.Histogram
	sampleSizeCalculations prometheus.Counter
	reportsGenerated       prometheus.Counter
	finalTopics            prometheus.Gauge

	// Client metrics
	clientCount   prometheus.Gauge
	templateCount prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store metrics
	storeOperations     *prometheus.CounterVec
	storeLatency        *prometheus.HistogramVec
	storeCorruptRecords prometheus.Counter
	demoWritesDiscarded prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
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
		namespace:        "sema",
		subsystem:        "assessment",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.stakeholdersScored = m.counter("stakeholders_scored_total", "Total number of stakeholder score computations")
	m.topicsAssessed = m.counter("internal_topics_assessed_total", "Total number of internal topic risk computations")
	m.responsesRecorded = m.counter("responses_recorded_total", "Total number of questionnaire responses recorded")
	m.sampleSizeCalculations = m.counter("sample_size_calculations_total", "Total number of sample size calculations")
	m.reportsGenerated = m.counter("reports_generated_total", "Total number of final materiality reports generated")
	m.finalTopics = m.gauge("final_topics", "Number of topics in the most recently generated report")

	m.aggregationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "aggregation_latency_milliseconds",
		Help:        "Histogram of external topic re-aggregation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.clientCount = m.gauge("clients", "Number of registered clients including the demo client")
	m.templateCount = m.gauge("templates", "Number of stored questionnaire templates")

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.storeOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_operations_total",
			Help:        "Total number of client store operations by operation and result",
			ConstLabels: m.constLabels,
		},
		[]string{"operation", "result"},
	)

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_latency_milliseconds",
			Help:        "Client store operation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.storeCorruptRecords = m.counter("store_corrupt_records_total", "Total number of stored bundles that failed to decode")
	m.demoWritesDiscarded = m.counter("demo_writes_discarded_total", "Total number of writes to the read-only demo client")

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)
}

// RecordStakeholderScored increments the stakeholder scoring counter by n.
func RecordStakeholderScored(n int) {
	if globalManager.enabled {
		globalManager.stakeholdersScored.Add(float64(n))
	}
}

// RecordTopicAssessed increments the internal topic counter by n.
func RecordTopicAssessed(n int) {
	if globalManager.enabled {
		globalManager.topicsAssessed.Add(float64(n))
	}
}

// RecordResponse increments the recorded responses counter.
func RecordResponse() {
	if globalManager.enabled {
		globalManager.responsesRecorded.Inc()
	}
}

// RecordAggregationLatency records re-aggregation latency in milliseconds.
func RecordAggregationLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.aggregationLatency.Observe(latencyMs)
	}
}

// RecordSampleSizeCalculation increments the sample size calculation counter.
func RecordSampleSizeCalculation() {
	if globalManager.enabled {
		globalManager.sampleSizeCalculations.Inc()
	}
}

// RecordReport increments the report counter and sets the final topic gauge.
func RecordReport(finalTopics int) {
	if globalManager.enabled {
		globalManager.reportsGenerated.Inc()
		globalManager.finalTopics.Set(float64(finalTopics))
	}
}

// UpdateClientCount sets the registered client count.
func UpdateClientCount(count int) {
	if globalManager.enabled {
		globalManager.clientCount.Set(float64(count))
	}
}

// UpdateTemplateCount sets the stored template count.
func UpdateTemplateCount(count int) {
	if globalManager.enabled {
		globalManager.templateCount.Set(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordStoreOperation records one store operation with its result label
// ("ok", "miss", "error") and latency.
func RecordStoreOperation(operation, result string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeOperations.WithLabelValues(operation, result).Inc()
		globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
	}
}

// RecordCorruptRecord increments the corrupt bundle counter.
func RecordCorruptRecord() {
	if globalManager.enabled {
		globalManager.storeCorruptRecords.Inc()
	}
}

// RecordDemoWriteDiscarded increments the discarded demo write counter.
func RecordDemoWriteDiscarded() {
	if globalManager.enabled {
		globalManager.demoWritesDiscarded.Inc()
	}
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
