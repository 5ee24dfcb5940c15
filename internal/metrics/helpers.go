package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Timer provides a convenient way to time operations
type Timer struct {
	histogram prometheus.Observer
	startTime time.Time
}

// NewTimer creates a new timer using the given histogram
func NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		histogram: histogram,
		startTime: time.Now(),
	}
}

// ObserveDuration records the duration since the timer was created
func (t *Timer) ObserveDuration() {
	t.histogram.Observe(time.Since(t.startTime).Seconds())
}

// ObserveCalculation counts one run of operation and records how long it took.
// kind is empty for successful runs.
func ObserveCalculation(operation, kind string, started time.Time) {
	CalculationsTotal.WithLabelValues(operation).Inc()
	CalculationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if kind != "" {
		CalculationFailuresTotal.WithLabelValues(operation, kind).Inc()
	}
}
