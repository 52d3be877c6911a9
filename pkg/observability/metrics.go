// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the hydrolog service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets for request latencies, sized for a
// CRUD API where the slowest legitimate path is a bcrypt verification.
var APIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

var (
	// RequestsTotal counts all HTTP requests by method, route, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrolog_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hydrolog_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthFailuresTotal counts token verification failures by reason.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrolog_auth_failures_total",
			Help: "Token verification failures",
		},
		[]string{"reason"},
	)

	// LoginsTotal counts login attempts by outcome (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrolog_logins_total",
			Help: "Login attempts",
		},
		[]string{"outcome"},
	)

	// MeasurementsRecordedTotal counts persisted measurements.
	MeasurementsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hydrolog_measurements_recorded_total",
			Help: "Measurements recorded",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		LoginsTotal,
		MeasurementsRecordedTotal,
	)
}
