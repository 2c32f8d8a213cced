// Package telemetry records how long callers wait for and hold the environment lock.
//
// Instruments are created from the global OpenTelemetry meter provider, so they
// are no-ops until the host process installs one with otel.SetMeterProvider.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	MeterName = "github.com/gruntwork-io/envlock"

	WaitDurationMetric = "envlock_wait_duration_seconds"
	HoldDurationMetric = "envlock_hold_duration_seconds"
	AcquisitionsMetric = "envlock_acquisitions_total"

	// RecoveredAttribute is set on acquisitions that followed an abandoned lock.
	RecoveredAttribute = "recovered"
)

var ( //nolint:gochecknoglobals
	waitDuration metric.Float64Histogram
	holdDuration metric.Float64Histogram
	acquisitions metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error

	disabled atomic.Bool
)

// SetEnabled turns recording on or off for the whole process.
func SetEnabled(enabled bool) {
	disabled.Store(!enabled)
}

func initMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.Meter(MeterName)

		var err error

		waitDuration, err = meter.Float64Histogram(
			WaitDurationMetric,
			metric.WithDescription("Time spent blocked before acquiring the environment lock"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		holdDuration, err = meter.Float64Histogram(
			HoldDurationMetric,
			metric.WithDescription("Time the environment lock was held by a guard"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		acquisitions, err = meter.Int64Counter(
			AcquisitionsMetric,
			metric.WithDescription("Number of environment lock acquisitions"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})

	return metricsErr
}

// RecordAcquire records one acquisition and the time spent waiting for it.
func RecordAcquire(ctx context.Context, wait time.Duration, recovered bool) {
	if disabled.Load() || initMetrics() != nil {
		return
	}

	acquisitions.Add(ctx, 1, metric.WithAttributes(attribute.Bool(RecoveredAttribute, recovered)))
	waitDuration.Record(ctx, wait.Seconds())
}

// RecordRelease records how long a guard held the lock.
func RecordRelease(ctx context.Context, held time.Duration) {
	if disabled.Load() || initMetrics() != nil {
		return
	}

	holdDuration.Record(ctx, held.Seconds())
}
