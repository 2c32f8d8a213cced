package telemetry_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gruntwork-io/envlock/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var reader *sdkmetric.ManualReader //nolint:gochecknoglobals

func TestMain(m *testing.M) {
	reader = sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	os.Exit(m.Run())
}

func collect(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	metrics := make(map[string]metricdata.Metrics)

	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != telemetry.MeterName {
			continue
		}

		for _, m := range scope.Metrics {
			metrics[m.Name] = m
		}
	}

	return metrics
}

func acquisitionCount(t *testing.T, recovered bool) int64 {
	t.Helper()

	m, ok := collect(t)[telemetry.AcquisitionsMetric]
	if !ok {
		return 0
	}

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	want := attribute.NewSet(attribute.Bool(telemetry.RecoveredAttribute, recovered))

	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}

	return 0
}

func histogramCount(t *testing.T, name string) uint64 {
	t.Helper()

	m, ok := collect(t)[name]
	if !ok {
		return 0
	}

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}

	return count
}

func TestRecordAcquireAndRelease(t *testing.T) { //nolint:paralleltest // shares the global meter provider
	ctx := context.Background()

	before := acquisitionCount(t, false)
	beforeRecovered := acquisitionCount(t, true)
	beforeWait := histogramCount(t, telemetry.WaitDurationMetric)
	beforeHold := histogramCount(t, telemetry.HoldDurationMetric)

	telemetry.RecordAcquire(ctx, 5*time.Millisecond, false)
	telemetry.RecordAcquire(ctx, time.Millisecond, true)
	telemetry.RecordRelease(ctx, 20*time.Millisecond)

	assert.Equal(t, before+1, acquisitionCount(t, false))
	assert.Equal(t, beforeRecovered+1, acquisitionCount(t, true))
	assert.Equal(t, beforeWait+2, histogramCount(t, telemetry.WaitDurationMetric))
	assert.Equal(t, beforeHold+1, histogramCount(t, telemetry.HoldDurationMetric))
}

func TestSetEnabled(t *testing.T) { //nolint:paralleltest // toggles process-wide recording
	ctx := context.Background()

	before := acquisitionCount(t, false)

	telemetry.SetEnabled(false)
	t.Cleanup(func() { telemetry.SetEnabled(true) })

	telemetry.RecordAcquire(ctx, time.Millisecond, false)
	telemetry.RecordRelease(ctx, time.Millisecond)

	assert.Equal(t, before, acquisitionCount(t, false))
}
