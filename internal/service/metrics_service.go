package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/escolar-mx/secundaria-api/internal/store"
)

// MetricsService encapsulates Prometheus instrumentation for the period
// lifecycle, grade capture, promotion, and persistence paths.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	monitorTicks    prometheus.Counter
	autoClosures    prometheus.Counter
	captures        *prometheus.CounterVec
	promotions      prometheus.Counter
	saveFailures    *prometheus.CounterVec
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

	monitorTicks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deadline_monitor_ticks_total",
		Help: "Total ticks of the deadline monitor",
	})

	autoClosures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "periods_autoclosed_total",
		Help: "Periods closed automatically by a passed deadline",
	})

	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grade_captures_total",
		Help: "Grade capture attempts by outcome",
	}, []string{"result"})

	promotions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cycle_promotions_total",
		Help: "Completed cycle promotions",
	})

	saveFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_save_failures_total",
		Help: "Snapshot persistence failures by classification",
	}, []string{"class"})

	registry.MustRegister(requestDuration, requestTotal, monitorTicks, autoClosures, captures, promotions, saveFailures)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		monitorTicks:    monitorTicks,
		autoClosures:    autoClosures,
		captures:        captures,
		promotions:      promotions,
		saveFailures:    saveFailures,
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
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// ObserveMonitorTick records one monitor pass and how many periods it closed.
func (m *MetricsService) ObserveMonitorTick(closed int) {
	if m == nil {
		return
	}
	m.monitorTicks.Inc()
	if closed > 0 {
		m.autoClosures.Add(float64(closed))
	}
}

// ObserveCapture records a grade capture attempt.
func (m *MetricsService) ObserveCapture(accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.captures.WithLabelValues(result).Inc()
}

// ObservePromotion records a completed promotion.
func (m *MetricsService) ObservePromotion() {
	if m == nil {
		return
	}
	m.promotions.Inc()
}

// ObserveSaveFailure records a classified persistence failure.
func (m *MetricsService) ObserveSaveFailure(class store.SaveErrorClass) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(string(class)).Inc()
}

func httpStatusLabel(status int) string {
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
