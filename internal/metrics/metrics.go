package metrics

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Refresh cycle outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
)

type Metrics struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Backend Metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec

	// Dashboard Metrics
	RefreshCyclesTotal   *prometheus.CounterVec
	RefreshCycleDuration prometheus.Histogram
	ActionsTotal         *prometheus.CounterVec
	PushClients          prometheus.Gauge
	PushMessagesTotal    prometheus.Counter
	PushDroppedTotal     prometheus.Counter
	DashboardState       *prometheus.GaugeVec

	// System Metrics
	ServiceUptime    prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics registers every collector on a private registry so that several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   []float64{100, 1000, 10_000, 100_000, 1_000_000},
			},
			[]string{"method", "path", "status_code"},
		),

		BackendRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total number of requests sent to the leads backend",
			},
			[]string{"method", "endpoint", "outcome"},
		),
		BackendRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of leads backend requests in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),

		RefreshCyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_cycles_total",
				Help:      "Total number of poll refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		RefreshCycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refresh_cycle_duration_seconds",
				Help:      "Duration of poll refresh cycles in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Total number of operator actions by outcome",
			},
			[]string{"action", "outcome"},
		),
		PushClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "push_clients",
				Help:      "Number of connected websocket clients",
			},
		),
		PushMessagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_messages_total",
				Help:      "Total number of element frames queued for clients",
			},
		),
		PushDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_dropped_total",
				Help:      "Total number of clients dropped for falling behind",
			},
		),

		DashboardState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "state",
				Help:      "Dashboard state sampled by the system collector",
			},
			[]string{"probe"},
		),

		ServiceUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_uptime_seconds",
				Help:      "Service uptime in seconds",
			},
		),
		MemoryUsageBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Memory usage in bytes",
			},
			[]string{"type"},
		),

		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) RecordBackendRequest(method, endpoint, outcome string, duration time.Duration) {
	m.BackendRequestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	m.BackendRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordRefreshCycle(outcome string, duration time.Duration) {
	m.RefreshCyclesTotal.WithLabelValues(outcome).Inc()
	m.RefreshCycleDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordAction(action, outcome string) {
	m.ActionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) PushClientConnected() {
	m.PushClients.Inc()
}

func (m *Metrics) PushClientDisconnected() {
	m.PushClients.Dec()
}

func (m *Metrics) RecordPushMessage() {
	m.PushMessagesTotal.Inc()
}

func (m *Metrics) RecordPushDropped() {
	m.PushDroppedTotal.Inc()
}

// UpdateSystemMetrics updates uptime and memory gauges.
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))
}
