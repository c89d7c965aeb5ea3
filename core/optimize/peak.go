package optimize

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/model"
	"github.com/kilianp07/bessim/core/sim"
)

const (
	peakGridPoints   = 21
	peakLowFraction  = 0.50
	peakHighFraction = 0.95
	// Monthly weighting of daily energy savings against the demand charge.
	peakEnergyWeight = 30
)

// PeakShavingSearch grid-searches the import threshold of the peak-shaving
// policy, scoring candidates by monthly demand-charge savings plus weighted
// daily energy savings.
type PeakShavingSearch struct {
	Spec              model.BatterySpec
	Tariff            dispatch.Tariff
	DemandChargeRate  float64
	InitialSoCPercent float64

	Sink metrics.TrialRecorder
	Log  logger.Logger
}

// Optimize evaluates evenly spaced thresholds between 50% and 95% of the
// pre-battery peak net load.
func (s PeakShavingSearch) Optimize(loadKW, productionKW []float64) (Result, error) {
	rec := newRecorder("peak_shaving", s.Sink, s.Log)

	peakWithout := 0.0
	for h := range loadKW {
		if net := loadKW[h] - productionKW[h]; net > peakWithout {
			peakWithout = net
		}
	}
	if peakWithout <= 0 {
		return Result{RunID: rec.runID, Search: rec.name, Parameters: map[string]float64{"grid_import_limit": 0}}, nil
	}

	baseline := sim.BaselineCost(s.Tariff, loadKW, productionKW)

	thresholds := make([]float64, peakGridPoints)
	floats.Span(thresholds, peakLowFraction*peakWithout, peakHighFraction*peakWithout)

	best := Result{RunID: rec.runID, Search: rec.name}
	bestScore := 0.0
	first := true
	for _, limit := range thresholds {
		engine := dispatch.Engine{
			Spec:   s.Spec,
			Policy: dispatch.PeakShaving{GridImportLimitKW: limit},
			Tariff: s.Tariff,
		}
		state := model.NewBatteryState(s.Spec, s.InitialSoCPercent)
		result, _, err := sim.Run(engine, state, loadKW, productionKW)
		if err != nil {
			return Result{}, err
		}

		energySavings := baseline - result.DailyCost
		score := (peakWithout-result.PeakImportKW())*s.DemandChargeRate + peakEnergyWeight*energySavings
		rec.trial(map[string]float64{"grid_import_limit": limit}, score, false)

		if first || score > bestScore {
			first = false
			bestScore = score
			best.Parameters = map[string]float64{
				"grid_import_limit": limit,
				"peak_without":      peakWithout,
				"peak_with":         result.PeakImportKW(),
			}
			best.Savings = energySavings
		}
	}

	rec.trial(best.Parameters, bestScore, true)
	rec.log.Infof("peak shaving search done: limit=%.2fkW score=%.4f", best.Parameters["grid_import_limit"], bestScore)
	return best, nil
}
