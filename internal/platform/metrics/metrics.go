package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TransfersCommitted prometheus.Counter
	TransfersDenied    *prometheus.CounterVec
	FraudReports       prometheus.Counter
	TransferDuration   prometheus.Histogram
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a specific registry. Tests use this to
// avoid duplicate registration across cases.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransfersCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbuddy_transfers_committed_total",
			Help: "Total number of transfers committed",
		}),
		TransfersDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bankbuddy_transfers_denied_total",
			Help: "Total number of transfers denied, by reason",
		}, []string{"reason"}),
		FraudReports: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbuddy_fraud_reports_total",
			Help: "Total number of addresses reported as fraudulent",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankbuddy_transfer_duration_ms",
			Help:    "Latency of transfer execution in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bankbuddy_http_request_duration_ms",
			Help:    "Latency of HTTP requests in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route", "status"}),
	}
}

// ObserveTransfer records one transfer execution.
func (m *Metrics) ObserveTransfer(start time.Time) {
	m.TransferDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// DenyTransfer increments the denial counter for a reason.
func (m *Metrics) DenyTransfer(reason string) {
	m.TransfersDenied.WithLabelValues(reason).Inc()
}
