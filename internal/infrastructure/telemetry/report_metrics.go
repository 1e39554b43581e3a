package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Report metric names
const (
	MetricReportGenerated = "report.generated"
	MetricReportFailures  = "report.failures"
	MetricReportDuration  = "report.duration"
	MetricReportRows      = "report.rows"
)

// ReportMetrics records report generation counters and latency
type ReportMetrics struct {
	generated metric.Int64Counter
	failures  metric.Int64Counter
	rows      metric.Int64Histogram
	duration  metric.Float64Histogram
}

// NewReportMetrics creates instruments on the given meter, or the global one when nil
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(TracerName)
	}

	generated, err := meter.Int64Counter(MetricReportGenerated,
		metric.WithDescription("Number of reports generated"),
		metric.WithUnit("{report}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", MetricReportGenerated, err)
	}
	failures, err := meter.Int64Counter(MetricReportFailures,
		metric.WithDescription("Number of reports that failed to load"),
		metric.WithUnit("{report}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", MetricReportFailures, err)
	}
	rows, err := meter.Int64Histogram(MetricReportRows,
		metric.WithDescription("Rows per generated report"),
		metric.WithUnit("{row}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", MetricReportRows, err)
	}
	duration, err := meter.Float64Histogram(MetricReportDuration,
		metric.WithDescription("Report generation latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", MetricReportDuration, err)
	}

	return &ReportMetrics{
		generated: generated,
		failures:  failures,
		rows:      rows,
		duration:  duration,
	}, nil
}

// RecordReport records one report invocation
func (m *ReportMetrics) RecordReport(ctx context.Context, kind string, rows int, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(AttrReportKind.String(kind))
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
		return
	}
	m.generated.Add(ctx, 1, attrs)
	m.rows.Record(ctx, int64(rows), attrs)
}
