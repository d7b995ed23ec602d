package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/apiadapter/logger"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
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

	res, err := newResource(cfg)
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

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the adapter meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metric names.
const (
	MetricRequests              = "adapter.requests"
	MetricRequestDuration       = "adapter.request.duration"
	MetricAuthorizationFailures = "adapter.authorization_failures"
	MetricInvalidations         = "adapter.session_invalidations"
)

// Metrics holds the adapter's metric instruments.
type Metrics struct {
	requests              metric.Int64Counter
	requestDuration       metric.Float64Histogram
	authorizationFailures metric.Int64Counter
	invalidations         metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Requests sent by the resource adapter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequests, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of adapter requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	authorizationFailures, err := meter.Int64Counter(MetricAuthorizationFailures,
		metric.WithDescription("Responses or credentials classified as authorization failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAuthorizationFailures, err)
	}

	invalidations, err := meter.Int64Counter(MetricInvalidations,
		metric.WithDescription("Session invalidation notifications sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInvalidations, err)
	}

	return &Metrics{
		requests:              requests,
		requestDuration:       requestDuration,
		authorizationFailures: authorizationFailures,
		invalidations:         invalidations,
	}, nil
}

// RecordRequest records a completed adapter request. A zero status means
// the exchange failed before a response was received.
func (m *Metrics) RecordRequest(ctx context.Context, operation, resourceType string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("resource_type", resourceType),
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("status", statusLabel(status)))...))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAuthorizationFailure counts an authorization failure. Status 0
// marks a credential rejected by the authorizer before sending.
func (m *Metrics) RecordAuthorizationFailure(ctx context.Context, status int) {
	if m == nil {
		return
	}
	m.authorizationFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", statusLabel(status)),
	))
}

// RecordInvalidation counts a session invalidation notification.
func (m *Metrics) RecordInvalidation(ctx context.Context) {
	if m == nil {
		return
	}
	m.invalidations.Add(ctx, 1)
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
