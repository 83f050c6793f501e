// Package metrics provides Prometheus metrics for the KOL analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Dataset state
	datasetRecords   prometheus.Gauge
	datasetCountries prometheus.Gauge
	datasetLoadMs    prometheus.Gauge

	// Query workload
	statsComputed   prometheus.Counter
	searchesServed  prometheus.Counter
	lookupMisses    prometheus.Counter
	statisticsError prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kolserve",
		subsystem:        "api",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		return m
	}

	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by endpoint, method, status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.errorsByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses, by endpoint and error type.",
	}, []string{"endpoint", "type"})

	m.datasetRecords = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "records",
		Help:      "Number of KOL records currently loaded.",
	})

	m.datasetCountries = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "countries",
		Help:      "Number of distinct countries in the loaded dataset.",
	})

	m.datasetLoadMs = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "load_duration_ms",
		Help:      "Duration of the startup dataset load in milliseconds.",
	})

	m.statsComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statistics_computed_total",
		Help:      "Number of statistics computations performed.",
	})

	m.searchesServed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_total",
		Help:      "Number of filtered list queries served.",
	})

	m.lookupMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_misses_total",
		Help:      "Point lookups for ids absent from the dataset.",
	})

	m.statisticsError = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statistics_errors_total",
		Help:      "Statistics computations that failed.",
	})

	return m
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.httpRequests != nil {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes one request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	if globalManager.httpRequestDuration != nil {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
	}
}

// RecordErrorByEndpoint counts one error response.
func RecordErrorByEndpoint(endpoint, errType string) {
	if globalManager.errorsByEndpoint != nil {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, errType).Inc()
	}
}

// UpdateDatasetRecords sets the loaded record count gauge.
func UpdateDatasetRecords(n int) {
	if globalManager.datasetRecords != nil {
		globalManager.datasetRecords.Set(float64(n))
	}
}

// UpdateDatasetCountries sets the distinct-country gauge.
func UpdateDatasetCountries(n int) {
	if globalManager.datasetCountries != nil {
		globalManager.datasetCountries.Set(float64(n))
	}
}

// RecordDatasetLoadDuration reports how long the startup load took.
func RecordDatasetLoadDuration(ms float64) {
	if globalManager.datasetLoadMs != nil {
		globalManager.datasetLoadMs.Set(ms)
	}
}

// RecordStatisticsComputed counts one successful stats computation.
func RecordStatisticsComputed() {
	if globalManager.statsComputed != nil {
		globalManager.statsComputed.Inc()
	}
}

// RecordStatisticsError counts one failed stats computation.
func RecordStatisticsError() {
	if globalManager.statisticsError != nil {
		globalManager.statisticsError.Inc()
	}
}

// RecordSearch counts one filtered list query.
func RecordSearch() {
	if globalManager.searchesServed != nil {
		globalManager.searchesServed.Inc()
	}
}

// RecordLookupMiss counts one point-lookup miss.
func RecordLookupMiss() {
	if globalManager.lookupMisses != nil {
		globalManager.lookupMisses.Inc()
	}
}
