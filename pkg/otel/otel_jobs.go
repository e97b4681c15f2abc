package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// JobMetrics records the outcome and duration of translation jobs.
type JobMetrics struct {
	finished metric.Int64Counter
	duration metric.Float64Histogram
}

func NewJobMetrics() *JobMetrics {
	meter := otel.Meter(instrumentationName)

	finished, _ := meter.Int64Counter("studio.jobs.finished",
		metric.WithDescription("Number of jobs that reached a terminal state"),
	)

	duration, _ := meter.Float64Histogram("studio.jobs.duration",
		metric.WithDescription("Time from submission to terminal state"),
		metric.WithUnit("s"),
	)

	return &JobMetrics{
		finished: finished,
		duration: duration,
	}
}

func (m *JobMetrics) Finished(ctx context.Context, status string, languages int, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		String("job.status", status),
		Int("job.languages", languages),
	)

	m.finished.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
