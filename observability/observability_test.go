package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.ServiceName != "cliproc" {
		t.Errorf("expected service name 'cliproc', got %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{SampleRate: 0.5}, false},
		{"rate too high", Config{SampleRate: 1.5}, true},
		{"rate negative", Config{SampleRate: -0.1}, true},
		{"negative interval", Config{Interval: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("cliproc-test", "1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	if attrs["service.name"] != "cliproc-test" {
		t.Errorf("expected service.name, got %v", attrs)
	}
	if attrs["service.version"] != "1.2.3" {
		t.Errorf("expected service.version, got %v", attrs)
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer(InstrumentationName).Start(context.Background(), SpanCommandRun)
	EndSpan(span, errors.New("exec: not found"))

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status())
	}
	if len(ended[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestEndSpanWithoutError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer(InstrumentationName).Start(context.Background(), SpanCommandRun)
	EndSpan(span, nil)

	if got := rec.Ended()[0].Status().Code; got != codes.Unset {
		t.Errorf("expected unset status, got %v", got)
	}
}

func TestRunMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewRunMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	m.RecordLaunch(ctx, "ls", false, nil)
	m.RecordLaunch(ctx, "ls", true, nil)
	m.RecordLaunch(ctx, "missing", false, errors.New("not found"))
	m.RecordExit(ctx, "ls", 0, 20*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			got[md.Name] = md.Data
		}
	}

	runs, ok := got["command.runs"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected command.runs sum, got %T", got["command.runs"])
	}
	var total int64
	for _, dp := range runs.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("expected 2 runs, got %d", total)
	}

	failures, ok := got["command.launch_failures"].(metricdata.Sum[int64])
	if !ok || len(failures.DataPoints) != 1 || failures.DataPoints[0].Value != 1 {
		t.Errorf("expected one launch failure, got %+v", got["command.launch_failures"])
	}

	hist, ok := got["command.duration"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("expected one duration sample, got %+v", got["command.duration"])
	}
}

func TestNilRunMetricsIsSafe(t *testing.T) {
	var m *RunMetrics
	m.RecordLaunch(context.Background(), "ls", false, nil)
	m.RecordExit(context.Background(), "ls", 0, time.Second)
}

func TestDefaultRunMetrics(t *testing.T) {
	if DefaultRunMetrics() == nil {
		t.Fatal("expected run metrics on the global meter")
	}
	if DefaultRunMetrics() != DefaultRunMetrics() {
		t.Error("expected a shared instance")
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}
