package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow outcomes reported by the orchestrator.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomePanicked  = "panicked"
)

// MetricsService encapsulates Prometheus instrumentation for the bridge, the gateway, the
// reference-data cache and the workflow orchestrator.
type MetricsService struct {
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	workflowsTotal  *prometheus.CounterVec
	workflowsActive prometheus.Gauge
	dispatchTotal   *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bridge_request_duration_seconds",
		Help:    "Duration of bridge HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_requests_total",
		Help: "Total number of bridge HTTP requests",
	}, []string{"method", "path", "status"})

	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Duration of outgoing backend and timetable calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"host", "method", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	workflowsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_workflows_total",
		Help: "Finished workflow runs by outcome",
	}, []string{"workflow", "outcome"})

	workflowsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "saga_workflows_in_flight",
		Help: "Workflow runs currently executing",
	})

	dispatchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_events_total",
		Help: "Events applied to the aggregate store",
	}, []string{"event"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, gatewayDuration, cacheLatency, cacheWrite, cacheHits,
		cacheMisses, workflowsTotal, workflowsActive, dispatchTotal, goroutines)

	return &MetricsService{
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		gatewayDuration: gatewayDuration,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		workflowsTotal:  workflowsTotal,
		workflowsActive: workflowsActive,
		dispatchTotal:   dispatchTotal,
	}
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

// ObserveHTTPRequest records bridge request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGatewayRequest records one outgoing call. A zero status means the transport failed.
func (m *MetricsService) ObserveGatewayRequest(host, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = fmt.Sprintf("%d", status)
	}
	m.gatewayDuration.WithLabelValues(host, method, label).Observe(duration.Seconds())
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// WorkflowStarted increments the in-flight gauge.
func (m *MetricsService) WorkflowStarted(string) {
	if m == nil {
		return
	}
	m.workflowsActive.Inc()
}

// WorkflowFinished records a finished run.
func (m *MetricsService) WorkflowFinished(workflow, outcome string) {
	if m == nil {
		return
	}
	m.workflowsActive.Dec()
	m.workflowsTotal.WithLabelValues(workflow, outcome).Inc()
}

// EventApplied counts an event reduced by the store.
func (m *MetricsService) EventApplied(name string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(name).Inc()
}
