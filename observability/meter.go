package observability

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/cliproc/logger"
)

// InitMeter installs an SDK meter provider exporting over OTLP/HTTP.
// The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns the cliproc meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// RunMetrics holds the instruments recorded for command runs.
type RunMetrics struct {
	runs     metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRunMetrics creates run instruments on the given meter.
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	runs, err := meter.Int64Counter("command.runs",
		metric.WithDescription("Commands launched"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.runs counter: %w", err)
	}

	failures, err := meter.Int64Counter("command.launch_failures",
		metric.WithDescription("Commands that could not be started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.launch_failures counter: %w", err)
	}

	duration, err := meter.Float64Histogram("command.duration",
		metric.WithDescription("Wall time of synchronous command runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.duration histogram: %w", err)
	}

	return &RunMetrics{runs: runs, failures: failures, duration: duration}, nil
}

var (
	defaultRunMetrics     *RunMetrics
	defaultRunMetricsOnce sync.Once
)

// DefaultRunMetrics returns run instruments on the global meter. Instruments
// created before a provider is installed forward to it once it is.
func DefaultRunMetrics() *RunMetrics {
	defaultRunMetricsOnce.Do(func() {
		m, err := NewRunMetrics(Meter())
		if err != nil {
			logger.Get("observability").Warn("run metrics unavailable", logger.ErrorFields("new_run_metrics", err))
			return
		}
		defaultRunMetrics = m
	})
	return defaultRunMetrics
}

// RecordLaunch counts a launch attempt. A nil receiver records nothing.
func (m *RunMetrics) RecordLaunch(ctx context.Context, program string, async bool, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("program", program),
		attribute.Bool("async", async),
	)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
		return
	}
	m.runs.Add(ctx, 1, attrs)
}

// RecordExit records the duration of a finished run.
func (m *RunMetrics) RecordExit(ctx context.Context, program string, exitCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("program", program),
		attribute.String("exit_code", strconv.Itoa(exitCode)),
	))
}
