package instrumentation

import (
	"testing"
)

func clearInstrumentationEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"INSTRUMENTATION_ENABLED",
		"METRICS_EXPORTER",
		"TRACING_EXPORTER",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_TRACES_SAMPLER_ARG",
		"PROMETHEUS_PUSHGATEWAY_URL",
		"PROMETHEUS_PUSH_JOB",
		"AUDIT_LOGGING_ENABLED",
		"AUDIT_LOGGING_INCLUDE_PATHS",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearInstrumentationEnv(t)

	config := DefaultConfig()

	if config.ServiceName != "drivepush" {
		t.Errorf("expected ServiceName 'drivepush', got %q", config.ServiceName)
	}

	if config.Enabled {
		t.Error("expected Enabled to be false by default")
	}

	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 1.0 {
		t.Errorf("expected TraceSamplingRate 1.0, got %f", config.TraceSamplingRate)
	}

	if config.PushgatewayURL != "" {
		t.Errorf("expected no pushgateway, got %q", config.PushgatewayURL)
	}

	if config.PushJob != "drivepush" {
		t.Errorf("expected PushJob 'drivepush', got %q", config.PushJob)
	}

	if !config.AuditLogging.Enabled {
		t.Error("expected audit logging to be enabled by default")
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("PROMETHEUS_PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PATHS", "false")

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}

	if !config.Enabled {
		t.Error("expected Enabled to be true")
	}

	if config.MetricsExporter != "stdout" {
		t.Errorf("expected MetricsExporter 'stdout', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != "stdout" {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}

	if config.PushgatewayURL != "http://pushgateway:9091" {
		t.Errorf("expected pushgateway URL, got %q", config.PushgatewayURL)
	}

	if config.AuditLogging.IncludePaths {
		t.Error("expected IncludePaths to be false")
	}
}

func TestDefaultConfig_InvalidValuesFallBack(t *testing.T) {
	clearInstrumentationEnv(t)
	t.Setenv("INSTRUMENTATION_ENABLED", "maybe")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "lots")

	config := DefaultConfig()

	if config.Enabled {
		t.Error("expected invalid bool to fall back to false")
	}
	if config.TraceSamplingRate != 1.0 {
		t.Errorf("expected invalid float to fall back to 1.0, got %f", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid prometheus config",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
		},
		{
			name: "valid pushgateway config",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				PushgatewayURL:  "http://localhost:9091",
			},
		},
		{
			name: "valid otlp config",
			config: Config{
				MetricsExporter:   ExporterOTLP,
				TracingExporter:   ExporterOTLP,
				OTLPEndpoint:      "localhost:4318",
				TraceSamplingRate: 1.0,
			},
		},
		{
			name:        "sampling rate too high",
			config:      Config{TraceSamplingRate: 1.5},
			expectError: true,
		},
		{
			name:        "sampling rate negative",
			config:      Config{TraceSamplingRate: -0.1},
			expectError: true,
		},
		{
			name:        "invalid metrics exporter",
			config:      Config{MetricsExporter: "graphite"},
			expectError: true,
		},
		{
			name:        "invalid tracing exporter",
			config:      Config{TracingExporter: "jaeger"},
			expectError: true,
		},
		{
			name:        "otlp tracing without endpoint",
			config:      Config{TracingExporter: ExporterOTLP},
			expectError: true,
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			expectError: true,
		},
		{
			name: "pushgateway with stdout exporter",
			config: Config{
				MetricsExporter: ExporterStdout,
				PushgatewayURL:  "http://localhost:9091",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
