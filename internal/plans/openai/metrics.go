package openai

import (
	"sync/atomic"
	"time"
)

// Metrics tracks completion call counters.
type Metrics struct {
	completionCalls   int64
	completionErrors  int64
	completionLatency int64 // total latency in nanoseconds
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot.
func GetMetrics() Metrics {
	return Metrics{
		completionCalls:   atomic.LoadInt64(&globalMetrics.completionCalls),
		completionErrors:  atomic.LoadInt64(&globalMetrics.completionErrors),
		completionLatency: atomic.LoadInt64(&globalMetrics.completionLatency),
	}
}

// ResetMetrics resets all counters (useful for testing).
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.completionCalls, 0)
	atomic.StoreInt64(&globalMetrics.completionErrors, 0)
	atomic.StoreInt64(&globalMetrics.completionLatency, 0)
}

func recordCompletionCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.completionCalls, 1)
	atomic.AddInt64(&globalMetrics.completionLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.completionErrors, 1)
	}
}

// Calls returns the number of completion calls recorded.
func (m Metrics) Calls() int64 { return m.completionCalls }

// Errors returns the number of failed completion calls.
func (m Metrics) Errors() int64 { return m.completionErrors }

// AverageLatency returns the average call latency in milliseconds.
func (m Metrics) AverageLatency() float64 {
	if m.completionCalls == 0 {
		return 0
	}
	return float64(m.completionLatency) / float64(m.completionCalls) / 1e6
}
