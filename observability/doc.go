// Package observability wires OpenTelemetry tracing and metrics for
// cliproc.
//
// Instrumentation always goes through the global OpenTelemetry providers,
// which are no-ops until Setup (or InitTracer/InitMeter) installs SDK
// providers exporting over OTLP/HTTP.
//
// # Configuration
//
//	observability:
//	  enabled: true
//	  endpoint: "localhost:4318"
//	  insecure: true
package observability
