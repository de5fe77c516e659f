package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a recording tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]any {
	attrs := map[string]any{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	return attrs
}

func TestStartSpan(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "upload.run", attribute.String(SpanAttrLocalPath, "/tmp/photos"))
	if ctx == nil {
		t.Fatal("expected context to be non-nil")
	}
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "upload.run" {
		t.Errorf("unexpected span name %q", ended[0].Name())
	}
	if spanAttrs(ended[0])[SpanAttrLocalPath] != "/tmp/photos" {
		t.Errorf("missing local path attribute")
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartGoogleAPISpan(context.Background(), ServiceDrive, "create_folder",
		attribute.String(SpanAttrName, "reports"),
		attribute.String(SpanAttrParentID, "root-id"),
	)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}

	got := ended[0]
	if got.Name() != "google.drive.create_folder" {
		t.Errorf("unexpected span name %q", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span, got %v", got.SpanKind())
	}

	attrs := spanAttrs(got)
	if attrs[SpanAttrService] != ServiceDrive {
		t.Errorf("expected service %q, got %v", ServiceDrive, attrs[SpanAttrService])
	}
	if attrs[SpanAttrOperation] != "create_folder" {
		t.Errorf("expected operation create_folder, got %v", attrs[SpanAttrOperation])
	}
	if attrs[SpanAttrName] != "reports" {
		t.Errorf("expected name reports, got %v", attrs[SpanAttrName])
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "failing")
	SetSpanError(span, errors.New("quota exceeded"))
	span.End()

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status().Code)
	}
	if got.Status().Description != "quota exceeded" {
		t.Errorf("unexpected description %q", got.Status().Description)
	}
	if len(got.Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "ok")
	SetSpanError(span, nil)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Unset {
		t.Errorf("expected unset status, got %v", code)
	}
}

func TestSetSpanSuccess(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "ok")
	SetSpanSuccess(span)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Ok {
		t.Errorf("expected ok status, got %v", code)
	}
}

func TestGetTraceAndSpanID(t *testing.T) {
	recordSpans(t)

	ctx, span := StartSpan(context.Background(), "ids")
	defer span.End()

	if got := GetTraceID(ctx); got != span.SpanContext().TraceID().String() {
		t.Errorf("GetTraceID = %q", got)
	}
	if got := GetSpanID(ctx); got != span.SpanContext().SpanID().String() {
		t.Errorf("GetSpanID = %q", got)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace ID, got %q", got)
	}
	if got := GetSpanID(context.Background()); got != "" {
		t.Errorf("expected empty span ID, got %q", got)
	}
}
