package instrumentation

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func newPrometheusProvider(t *testing.T, pushURL string) *Provider {
	t.Helper()

	provider, err := NewProvider(context.Background(), Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		PushgatewayURL:  pushURL,
		PushJob:         "drivepush-test",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider
}

// gatheredNames returns the metric family names currently in the
// provider's registry.
func gatheredNames(t *testing.T, provider *Provider) []string {
	t.Helper()

	families, err := provider.Registry().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}

func hasMetric(names []string, prefix string) bool {
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func TestNewProvider_Disabled(t *testing.T) {
	config := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	}

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}

	if provider.Registry() != nil {
		t.Error("expected no registry when disabled")
	}

	// Recording on the no-op recorder must not panic.
	provider.Metrics().RecordGoogleAPIOperation(context.Background(), ServiceDrive, "upload_file", StatusSuccess, time.Second)
	provider.Metrics().RecordBytesUploaded(context.Background(), 10)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	provider := newPrometheusProvider(t, "")
	defer func() { _ = provider.Shutdown(context.Background()) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}

	if provider.Registry() == nil {
		t.Fatal("expected a registry for the prometheus exporter")
	}

	ctx := context.Background()
	metrics := provider.Metrics()
	metrics.RecordGoogleAPIOperation(ctx, ServiceDrive, "create_folder", StatusSuccess, 120*time.Millisecond)
	metrics.RecordBytesUploaded(ctx, 4096)
	metrics.RecordRun(ctx, RunCompleted, 2*time.Second)

	names := gatheredNames(t, provider)
	for _, want := range []string{
		"google_api_operations",
		"google_api_operation_duration_seconds",
		"drive_bytes_uploaded",
		"upload_runs",
		"upload_run_duration_seconds",
	} {
		if !hasMetric(names, want) {
			t.Errorf("metric %s not found in %v", want, names)
		}
	}

	if tracer := provider.Tracer("test"); tracer == nil {
		t.Error("expected tracer to be non-nil")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	config := Config{
		ServiceName:       "test-service",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   ExporterStdout,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}

	if provider.Registry() != nil {
		t.Error("expected no registry for stdout exporter")
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "invalid metrics exporter",
			config: Config{MetricsExporter: "invalid", TracingExporter: ExporterNone},
		},
		{
			name:   "invalid tracing exporter",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: "invalid"},
		},
		{
			name:   "otlp tracing without endpoint",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP},
		},
		{
			name:   "otlp metrics without endpoint",
			config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterNone},
		},
		{
			name:   "pushgateway without prometheus exporter",
			config: Config{MetricsExporter: ExporterStdout, TracingExporter: ExporterNone, PushgatewayURL: "http://localhost:9091"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.ServiceName = "test-service"
			tt.config.Enabled = true

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if _, err := NewProvider(ctx, tt.config); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// fakePushgateway records the requests a Pusher sends.
type fakePushgateway struct {
	mu     sync.Mutex
	method string
	path   string
	body   []byte
}

func (f *fakePushgateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.method, f.path, f.body = r.Method, r.URL.Path, body
	f.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func TestProvider_ShutdownPushesMetrics(t *testing.T) {
	gateway := &fakePushgateway{}
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	provider := newPrometheusProvider(t, srv.URL)

	ctx := context.Background()
	provider.Metrics().RecordRun(ctx, RunAborted, time.Second)

	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("expected no error on shutdown, got %v", err)
	}

	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	if gateway.method != http.MethodPut {
		t.Errorf("expected PUT, got %q", gateway.method)
	}
	if gateway.path != "/metrics/job/drivepush-test" {
		t.Errorf("unexpected push path %q", gateway.path)
	}
	if !bytes.Contains(gateway.body, []byte("upload_runs")) {
		t.Error("pushed body does not contain upload_runs")
	}
}

func TestProvider_PushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := newPrometheusProvider(t, srv.URL)

	if err := provider.Shutdown(context.Background()); err == nil {
		t.Error("expected push error to surface from Shutdown")
	}
}

func TestProvider_PushWithoutGateway(t *testing.T) {
	provider := newPrometheusProvider(t, "")
	defer func() { _ = provider.Shutdown(context.Background()) }()

	if err := provider.Push(context.Background()); err != nil {
		t.Errorf("expected no-op push, got %v", err)
	}
}

func TestProvider_Tracer_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if tracer := provider.Tracer("test"); tracer == nil {
		t.Error("expected tracer to be non-nil (no-op)")
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(Config{ServiceName: "drivepush", ServiceVersion: "1.2.3", ServiceInstanceID: "ci-runner-7"})

	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}

	if got["service.name"] != "drivepush" || got["service.version"] != "1.2.3" {
		t.Errorf("unexpected service attributes: %v", got)
	}
	if got["service.instance.id"] != "ci-runner-7" {
		t.Errorf("service.instance.id = %q, want ci-runner-7", got["service.instance.id"])
	}

	fallback := resourceAttributes(Config{ServiceName: "drivepush"})
	if hostname, err := os.Hostname(); err == nil {
		found := false
		for _, kv := range fallback {
			if string(kv.Key) == "service.instance.id" && kv.Value.AsString() == hostname {
				found = true
			}
		}
		if !found {
			t.Errorf("expected hostname %q as instance id, got %v", hostname, fallback)
		}
	}
}
