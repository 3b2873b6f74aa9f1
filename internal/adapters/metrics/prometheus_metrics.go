// Package metrics provides Prometheus-based implementations of service metrics reporting.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lifecycle operation metrics
	operationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_portal_operations_total",
		Help: "Total number of portal lifecycle operations",
	}, []string{"operation", "result"}) // operation: list, create, repair, delete, download

	// Validity check metrics
	validityCheckCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_validity_checks_total",
		Help: "Total number of profile validity checks",
	}, []string{"outcome"}) // outcome: valid, invalid

	// Retry metrics
	retryCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provision_portal_retries_total",
		Help: "Total number of portal call retry attempts",
	}, []string{"attempt"})
)

// PrometheusMetrics implements services.MetricsReporter using Prometheus
type PrometheusMetrics struct{}

// NewPrometheusMetrics creates a new Prometheus metrics reporter
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{}
}

// RecordOperation records a lifecycle operation outcome
func (m *PrometheusMetrics) RecordOperation(operation string, result string) {
	operationCounter.WithLabelValues(operation, result).Inc()
}

// RecordValidityCheck records a validity check outcome
func (m *PrometheusMetrics) RecordValidityCheck(valid bool) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	validityCheckCounter.WithLabelValues(outcome).Inc()
}

// RecordRetry records a portal call retry attempt
func (m *PrometheusMetrics) RecordRetry(attempt int) {
	retryCounter.WithLabelValues(strconv.Itoa(attempt)).Inc()
}
