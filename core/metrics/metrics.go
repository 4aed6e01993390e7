package metrics

import "time"

// Status values of a PartitionEvent.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// PartitionEvent describes one engine invocation.
type PartitionEvent struct {
	RunID    string
	Measure  string
	Scheme   string
	KeyChain string
	Vintage  string
	Years    int
	Status   string
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records partition runs for observability purposes.
type MetricsSink interface {
	RecordPartition(ev PartitionEvent) error
}

// FallbackEvent records a diffusion coefficient replaced by the default
// schedule or flagged as out of range.
type FallbackEvent struct {
	RunID   string
	Measure string
	Reason  string
	Detail  string
	Time    time.Time
}

// FallbackRecorder is implemented by sinks able to record fallbacks.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPartition(PartitionEvent) error { return nil }
func (NopSink) RecordFallback(FallbackEvent) error   { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPartition forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordPartition(ev PartitionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPartition(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFallback forwards fallback events to sinks that support them.
func (m *MultiSink) RecordFallback(ev FallbackEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FallbackRecorder); ok {
			if err := rec.RecordFallback(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
