package metrics

import coremetrics "github.com/kilianp07/bessim/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDay forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordDay(rec coremetrics.DayRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordDay(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrial forwards the record to all sinks.
func (m *MultiSink) RecordTrial(rec coremetrics.TrialRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrial(rec); err != nil {
			return err
		}
	}
	return nil
}
