package services

// Operation names reported to the metrics reporter.
const (
	OpList     = "list"
	OpCreate   = "create"
	OpRepair   = "repair"
	OpDelete   = "delete"
	OpDownload = "download"
)

// Operation results reported to the metrics reporter.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MetricsReporter interface for reporting lifecycle metrics
type MetricsReporter interface {
	RecordOperation(operation string, result string)
	RecordValidityCheck(valid bool)
	RecordRetry(attempt int)
}

// NoOpMetrics implements MetricsReporter with no-op methods for when metrics are disabled
type NoOpMetrics struct{}

// RecordOperation no-op implementation
func (m *NoOpMetrics) RecordOperation(operation string, result string) {}

// RecordValidityCheck no-op implementation
func (m *NoOpMetrics) RecordValidityCheck(valid bool) {}

// RecordRetry no-op implementation
func (m *NoOpMetrics) RecordRetry(attempt int) {}
