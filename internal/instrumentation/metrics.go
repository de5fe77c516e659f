package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
)

// Metrics records drivepush metrics. The zero value is a no-op recorder.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Upload metrics
	bytesUploadedTotal metric.Int64Counter
	runsTotal          metric.Int64Counter
	runDuration        metric.Float64Histogram

	// Auth metrics
	authTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// No unit: the prometheus exporter would append a "_bytes" suffix.
	m.bytesUploadedTotal, err = meter.Int64Counter(
		"drive_bytes_uploaded_total",
		metric.WithDescription("Total number of file bytes uploaded to Google Drive"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_bytes_uploaded_total counter: %w", err)
	}

	m.runsTotal, err = meter.Int64Counter(
		"upload_runs_total",
		metric.WithDescription("Total number of upload runs by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload_runs_total counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"upload_run_duration_seconds",
		metric.WithDescription("Upload run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 1.0, 5.0, 30.0, 60.0, 300.0, 900.0, 3600.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload_run_duration_seconds histogram: %w", err)
	}

	m.authTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of service-account authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	return m, nil
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (drive)
//   - operation: Operation type (create_folder, upload_file)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBytesUploaded adds n to the uploaded byte counter.
func (m *Metrics) RecordBytesUploaded(ctx context.Context, n int64) {
	if m == nil || m.bytesUploadedTotal == nil || n <= 0 {
		return
	}

	m.bytesUploadedTotal.Add(ctx, n)
}

// RecordRun records the outcome of one upload run.
// Status should be one of: "completed", "aborted"
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	if m == nil || m.runsTotal == nil || m.runDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}

	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAuth records a service-account authentication attempt.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordAuth(ctx context.Context, result string) {
	if m == nil || m.authTotal == nil {
		return
	}

	m.authTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
