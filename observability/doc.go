// Package observability wires OpenTelemetry tracing and metrics for the
// resource adapter.
//
// Setup installs the W3C trace-context propagator used by the transport
// and, when enabled, OTLP/HTTP tracer and meter providers:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter())
//
// The adapter wraps each request in an Operation that ends its span and
// records adapter.requests and adapter.request.duration. Authorization
// failures and session invalidations have their own counters.
package observability
