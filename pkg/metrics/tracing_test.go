package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ipms/pkg/metrics"
)

func TestSpanLogExporter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(metrics.NewSpanLogExporter(zap.New(core))))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	_, child := tp.Tracer("test").Start(ctx, "contact.Submit")
	child.SetAttributes(attribute.String("contact.outcome", "success"))
	child.SetStatus(codes.Ok, "")
	child.End()
	parent.End()

	entries := logs.FilterMessage("span finished").AllUntimed()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	require.Equal(t, "contact.Submit", fields["span"])
	require.Equal(t, "success", fields["contact.outcome"])
	require.Equal(t, "Ok", fields["status"])
	require.Equal(t, parent.SpanContext().SpanID().String(), fields["parent_span_id"])
	require.Equal(t, parent.SpanContext().TraceID().String(), fields["trace_id"])

	require.NotContains(t, entries[1].ContextMap(), "parent_span_id")
}

func TestNewTracerProvider_SampleRatio(t *testing.T) {
	tp := metrics.NewTracerProvider(zap.NewNop(), 0)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "dropped")
	require.False(t, span.SpanContext().IsSampled())
	span.End()

	tp = metrics.NewTracerProvider(zap.NewNop(), 1)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span = tp.Tracer("test").Start(context.Background(), "kept")
	require.True(t, span.SpanContext().IsSampled())
	span.End()
}
