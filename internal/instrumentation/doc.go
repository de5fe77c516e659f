// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for drivepush runs.
//
// Instrumentation is off by default. When enabled it records:
//   - google_api_operations_total: Counter of Drive calls by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Drive call durations
//   - drive_bytes_uploaded_total: Counter of file bytes sent
//   - upload_runs_total: Counter of runs by outcome (completed, aborted)
//   - upload_run_duration_seconds: Histogram of run durations
//   - oauth_auth_total: Counter of service-account authentication attempts by result
//
// Every Drive call gets a client span named google.drive.<operation>.
//
// A CLI run is too short to be scraped, so the prometheus exporter writes
// into a private registry that Shutdown pushes to a Pushgateway when
// PROMETHEUS_PUSHGATEWAY_URL is set.
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: drivepush)
//   - PROMETHEUS_PUSHGATEWAY_URL: Pushgateway base URL
//   - PROMETHEUS_PUSH_JOB: Pushgateway job name (default: drivepush)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PATHS: audit log switches
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, "upload_file", "success", time.Since(start))
package instrumentation
