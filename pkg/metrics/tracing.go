package metrics

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// NewTracerProvider creates a tracer provider that samples sampleRatio of new
// traces and writes finished spans to log at debug level.
func NewTracerProvider(log *zap.Logger, sampleRatio float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
		sdktrace.WithBatcher(NewSpanLogExporter(log)),
	)
}

// SpanLogExporter is a span exporter backed by a zap logger.
type SpanLogExporter struct {
	log *zap.Logger
}

// NewSpanLogExporter returns an exporter writing to log.
func NewSpanLogExporter(log *zap.Logger) *SpanLogExporter {
	return &SpanLogExporter{log: log}
}

// ExportSpans logs one debug entry per span.
func (e *SpanLogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := make([]zap.Field, 0, 6+len(s.Attributes()))
		fields = append(fields,
			zap.String("span", s.Name()),
			zap.String("trace_id", s.SpanContext().TraceID().String()),
			zap.String("span_id", s.SpanContext().SpanID().String()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
			zap.String("status", s.Status().Code.String()),
		)
		if s.Parent().IsValid() {
			fields = append(fields, zap.String("parent_span_id", s.Parent().SpanID().String()))
		}
		for _, kv := range s.Attributes() {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}

		e.log.Debug("span finished", fields...)
	}

	return nil
}

// Shutdown is a no-op; the logger is synced by its owner.
func (e *SpanLogExporter) Shutdown(context.Context) error { return nil }
