// Package telemetry wires OpenTelemetry traces, metrics and logs.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for report spans and metrics
const TracerName = "batchledger-backend"

// Span attribute keys
const (
	AttrReportKind  = attribute.Key("report.kind")
	AttrReportRows  = attribute.Key("report.rows")
	AttrCacheHit    = attribute.Key("report.cache_hit")
	AttrCacheKey    = attribute.Key("report.cache_key")
	spanNamePrefix  = "report."
	cancelledStatus = "cancelled"
)

// StartReportSpan starts an internal span named "report.<kind>"
func StartReportSpan(ctx context.Context, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, spanNamePrefix+kind,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append([]attribute.KeyValue{AttrReportKind.String(kind)}, attrs...)...),
	)
}

// MarkCacheHit records whether the result came from the report cache
func MarkCacheHit(span trace.Span, hit bool) {
	span.SetAttributes(AttrCacheHit.Bool(hit))
}

// SetRowCount records the number of top-level rows a report produced
func SetRowCount(span trace.Span, rows int) {
	span.SetAttributes(AttrReportRows.Int(rows))
}

// RecordError marks the span as failed. Cancellation is noted in the
// status description without recording an error event.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		span.SetStatus(codes.Error, cancelledStatus)
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
