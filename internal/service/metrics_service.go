package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	entriesTotal    *prometheus.CounterVec
	confirmTotal    *prometheus.CounterVec
	publishTotal    *prometheus.CounterVec
	streamClients   prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	entriesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "log_entries_total",
		Help: "Log entries persisted, by operation",
	}, []string{"operation"})

	confirmTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmations_total",
		Help: "Confirmation prompts raised, by code",
	}, []string{"code"})

	publishTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_publishes_total",
		Help: "Shared board publish operations, by kind",
	}, []string{"kind"})

	streamClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stream_clients",
		Help: "Currently connected realtime stream clients",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, entriesTotal, confirmTotal, publishTotal, streamClients, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		entriesTotal:    entriesTotal,
		confirmTotal:    confirmTotal,
		publishTotal:    publishTotal,
		streamClients:   streamClients,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordEntry counts a persisted entry by operation (create, update, delete).
func (m *MetricsService) RecordEntry(operation string) {
	if m == nil {
		return
	}
	m.entriesTotal.WithLabelValues(operation).Inc()
}

// RecordConfirmation counts a raised confirmation prompt by code.
func (m *MetricsService) RecordConfirmation(code string) {
	if m == nil || code == "" {
		return
	}
	m.confirmTotal.WithLabelValues(code).Inc()
}

// RecordPublish counts a shared board operation (publish, unpublish, republish).
func (m *MetricsService) RecordPublish(kind string) {
	if m == nil {
		return
	}
	m.publishTotal.WithLabelValues(kind).Inc()
}

// StreamClientConnected adjusts the live stream client gauge.
func (m *MetricsService) StreamClientConnected(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}
