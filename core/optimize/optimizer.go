// Package optimize searches policy parameters and battery sizing that
// maximise economic return, treating the day simulator as a black-box
// fitness evaluator.
package optimize

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/metrics"
)

// Result is the best parameter set found by a search, with the objective
// value achieved.
type Result struct {
	RunID      string
	Search     string
	Parameters map[string]float64
	// Savings is the daily cost saving against the no-battery baseline.
	Savings float64
	// NPV is populated by searches that score candidates economically.
	NPV float64
}

// Optimizer runs one search over the given hourly profiles. The searches
// are heuristics with bounded iteration budgets; they always return their
// best estimate rather than failing.
type Optimizer interface {
	Optimize(loadKW, productionKW []float64) (Result, error)
}

// recorder wraps the optional trial sink and logger shared by the searches.
type recorder struct {
	runID string
	name  string
	sink  metrics.TrialRecorder
	log   logger.Logger
}

func newRecorder(name string, sink metrics.TrialRecorder, log logger.Logger) recorder {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return recorder{runID: uuid.NewString(), name: name, sink: sink, log: log}
}

func (r recorder) trial(params map[string]float64, objective float64, best bool) {
	rec := metrics.TrialRecord{
		RunID:      r.runID,
		Search:     r.name,
		Parameters: params,
		Objective:  objective,
		Best:       best,
		Time:       time.Now(),
	}
	if err := r.sink.RecordTrial(rec); err != nil {
		r.log.Warnf("record trial: %v", err)
	}
}
