package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorizenet_transactions_total",
			Help: "Total number of charge/refund operations by terminal outcome",
		},
		[]string{"operation", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authorizenet_gateway_request_duration_seconds",
			Help:    "Round-trip duration of Authorize.Net API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	gatewayRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorizenet_gateway_request_errors_total",
			Help: "Total number of transport or parse failures talking to the gateway",
		},
		[]string{"operation"},
	)
)

// RecordOutcome records the terminal outcome of a charge or refund
func RecordOutcome(operation, status string) {
	transactionsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveGatewayDuration records one gateway round trip
func ObserveGatewayDuration(operation string, elapsed time.Duration) {
	gatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordGatewayError records a transport or parse failure
func RecordGatewayError(operation string) {
	gatewayRequestErrors.WithLabelValues(operation).Inc()
}
