package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CarrierErrors   *prometheus.CounterVec
	BookingsTotal   *prometheus.CounterVec
	QuotesCollected *prometheus.HistogramVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_requests_total",
				Help: "Total number of requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orders_request_duration_seconds",
				Help:    "Request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CarrierErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_carrier_errors_total",
				Help: "Total carrier API errors by carrier and error type",
			},
			[]string{"carrier", "error_type"},
		),
		BookingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_bookings_total",
				Help: "Total booking attempts by outcome",
			},
			[]string{"outcome"},
		),
		QuotesCollected: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orders_quotes_collected",
				Help:    "Number of quotes returned per aggregation pass",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
			[]string{"operation"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records a carrier error metric.
func (m *Metrics) RecordError(carrier, errorType string) {
	m.CarrierErrors.WithLabelValues(carrier, errorType).Inc()
}

// RecordBooking records a booking outcome.
func (m *Metrics) RecordBooking(outcome string) {
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// RecordQuotes records how many quotes one aggregation pass produced.
func (m *Metrics) RecordQuotes(operation string, count int) {
	m.QuotesCollected.WithLabelValues(operation).Observe(float64(count))
}
