package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestReportMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewReportMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReport(ctx, "cash_flow", 12, 30*time.Millisecond, nil)
	metrics.RecordReport(ctx, "cash_flow", 4, 10*time.Millisecond, nil)
	metrics.RecordReport(ctx, "customer_balances", 0, 5*time.Millisecond, errors.New("boom"))

	got := collect(t, reader)

	require.Contains(t, got, MetricReportGenerated)
	assert.Equal(t, int64(2), sumOf(t, got[MetricReportGenerated]))
	require.Contains(t, got, MetricReportFailures)
	assert.Equal(t, int64(1), sumOf(t, got[MetricReportFailures]))

	hist, ok := got[MetricReportDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestNewReportMetricsDefaultsToGlobalMeter(t *testing.T) {
	metrics, err := NewReportMetrics(nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		metrics.RecordReport(context.Background(), "batch_utilization", 1, time.Millisecond, nil)
	})
}
