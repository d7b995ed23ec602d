package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one adapter request: its span, start time and the
// metrics it reports to when it ends.
type Operation struct {
	Name         string
	ResourceType string
	RequestID    string
	StartTime    time.Time

	span    trace.Span
	metrics *Metrics
}

type operationContextKey struct{}

// StartOperation starts a span for the named operation and stores the
// Operation in the returned context. A nil tracer uses the global one; nil
// metrics skip recording.
func StartOperation(ctx context.Context, tracer trace.Tracer, metrics *Metrics, name, resourceType, requestID string) (context.Context, *Operation) {
	if tracer == nil {
		tracer = Tracer()
	}
	ctx, span := tracer.Start(ctx, SpanAdapterRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrOperation, name),
			attribute.String(AttrResourceType, resourceType),
			attribute.String(AttrRequestID, requestID),
		),
	)
	op := &Operation{
		Name:         name,
		ResourceType: resourceType,
		RequestID:    requestID,
		StartTime:    time.Now(),
		span:         span,
		metrics:      metrics,
	}
	return context.WithValue(ctx, operationContextKey{}, op), op
}

// OperationFromContext retrieves the Operation from context, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationContextKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// SetAttributes adds attributes to the operation span.
func (o *Operation) SetAttributes(kv ...attribute.KeyValue) {
	o.span.SetAttributes(kv...)
}

// End records the outcome and ends the span. Status 0 means no response.
func (o *Operation) End(ctx context.Context, status int, err error) {
	if status > 0 {
		o.span.SetAttributes(attribute.Int(AttrStatusCode, status))
	}
	if err != nil {
		SetSpanError(trace.ContextWithSpan(ctx, o.span), err)
	}
	o.span.End()
	o.metrics.RecordRequest(ctx, o.Name, o.ResourceType, status, o.Duration())
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
