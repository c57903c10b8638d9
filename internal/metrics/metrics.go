package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Backtest metrics
	backtestsTotal   *prometheus.CounterVec
	backtestDuration prometheus.Histogram
	jobsActive       prometheus.Gauge
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtests_total",
				Help: "Total number of backtest runs by outcome",
			},
			[]string{"status"},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "backtest_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		jobsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "backtest_jobs_active",
				Help: "Number of backtest jobs currently pending or running",
			},
		),
	}

	reg.MustRegister(
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.httpRequestsInFlight,
		r.backtestsTotal,
		r.backtestDuration,
		r.jobsActive,
	)

	return r
}

// RecordRequest records one served HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, seconds float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, httpStatusLabel(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// InFlightInc increments the in-flight request gauge.
func (r *Registry) InFlightInc() { r.httpRequestsInFlight.Inc() }

// InFlightDec decrements the in-flight request gauge.
func (r *Registry) InFlightDec() { r.httpRequestsInFlight.Dec() }

// RecordBacktest records one completed backtest run.
func (r *Registry) RecordBacktest(status string, seconds float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(seconds)
}

// JobsActiveInc increments the active jobs gauge.
func (r *Registry) JobsActiveInc() { r.jobsActive.Inc() }

// JobsActiveDec decrements the active jobs gauge.
func (r *Registry) JobsActiveDec() { r.jobsActive.Dec() }

// Handler returns the scrape handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
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
