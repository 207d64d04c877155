package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	transitionsTotal       *prometheus.CounterVec
	sideEffectFailures     *prometheus.CounterVec
	paymentsRecordedTotal  *prometheus.CounterVec
	requestsTotal          *prometheus.CounterVec
	requestLatencySeconds  *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the admission API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_transitions_total",
			Help: "Total number of committed application status transitions.",
		}, []string{"event", "to_status"})

		sideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_side_effect_failures_total",
			Help: "Total number of failed best-effort side effects.",
		}, []string{"kind"})

		paymentsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_payments_recorded_total",
			Help: "Total number of payment ledger entries recorded.",
		}, []string{"method"})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admission_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(transitionsTotal, sideEffectFailures, paymentsRecordedTotal, requestsTotal, requestLatencySeconds)
	})
}

// Transitions exposes the committed-transition counter.
func Transitions() *prometheus.CounterVec {
	RegisterMetrics()
	return transitionsTotal
}

// SideEffectFailures exposes the side-effect failure counter.
func SideEffectFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return sideEffectFailures
}

// PaymentsRecorded exposes the payment ledger counter.
func PaymentsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentsRecordedTotal
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the request latency histogram.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}
