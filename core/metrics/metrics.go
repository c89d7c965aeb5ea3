// Package metrics defines the records produced by simulations and optimizer
// runs, and the sink interfaces observability backends implement.
package metrics

import "time"

// DayRecord is one simulated day, ready for recording.
type DayRecord struct {
	RunID           string
	Policy          string
	Day             int
	DailyCost       float64
	SelfConsumption float64
	SelfSufficiency float64
	CycleEquivalent float64
	PeakImportKW    float64
	Degradation     float64
	Time            time.Time
}

// TrialRecord is one optimizer evaluation.
type TrialRecord struct {
	RunID      string
	Search     string
	Parameters map[string]float64
	Objective  float64
	Best       bool
	Time       time.Time
}

// DayRecorder records simulated days.
type DayRecorder interface {
	RecordDay(DayRecord) error
}

// TrialRecorder records optimizer trials.
type TrialRecorder interface {
	RecordTrial(TrialRecord) error
}

// Sink combines all recorders.
type Sink interface {
	DayRecorder
	TrialRecorder
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordDay(DayRecord) error     { return nil }
func (NopSink) RecordTrial(TrialRecord) error { return nil }

// Config selects the enabled backends.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
