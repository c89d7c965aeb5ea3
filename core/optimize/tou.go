package optimize

import (
	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/model"
	"github.com/kilianp07/bessim/core/sim"
)

const (
	touIterations  = 100
	touInitialStep = 0.05
)

// thresholdPolicy is the evaluation strategy used only inside the threshold
// search: it charges below the charge threshold and discharges above the
// discharge threshold. The primary TimeOfUse policy keeps its average-rate
// heuristic instead; the two are intentionally not unified.
type thresholdPolicy struct {
	schedule           model.RateSchedule
	chargeThreshold    float64
	dischargeThreshold float64
}

func (thresholdPolicy) Name() string { return "tou_threshold_eval" }

func (p thresholdPolicy) Decide(hour int, _ model.BatteryState, _ float64) dispatch.Decision {
	rate := p.schedule.RateAt(hour)
	return dispatch.Decision{
		Charge:    rate <= p.chargeThreshold,
		Discharge: rate >= p.dischargeThreshold,
	}
}

// TOUThresholdSearch tunes the charge and discharge price thresholds of a
// time-of-use strategy with a decaying-step coordinate search. The search is
// a noisy local heuristic without convergence guarantees; it reports the
// best point seen within its iteration budget.
type TOUThresholdSearch struct {
	Spec              model.BatterySpec
	Tariff            dispatch.Tariff
	InitialSoCPercent float64

	Sink metrics.TrialRecorder
	Log  logger.Logger
}

// Optimize runs the threshold search over one representative day.
func (s TOUThresholdSearch) Optimize(loadKW, productionKW []float64) (Result, error) {
	rec := newRecorder("tou_threshold", s.Sink, s.Log)

	avg := s.Tariff.Schedule.AverageRate()
	min := s.Tariff.Schedule.MinRate()
	max := s.Tariff.Schedule.MaxRate()

	charge := clamp(0.9*avg, min, avg)
	discharge := clamp(1.1*avg, avg, max)

	eval := func(c, d float64) (float64, error) {
		engine := dispatch.Engine{
			Spec:   s.Spec,
			Policy: thresholdPolicy{schedule: s.Tariff.Schedule, chargeThreshold: c, dischargeThreshold: d},
			Tariff: s.Tariff,
		}
		state := model.NewBatteryState(s.Spec, s.InitialSoCPercent)
		result, _, err := sim.Run(engine, state, loadKW, productionKW)
		if err != nil {
			return 0, err
		}
		return sim.BaselineCost(s.Tariff, loadKW, productionKW) - result.DailyCost, nil
	}

	current, err := eval(charge, discharge)
	if err != nil {
		return Result{}, err
	}
	bestCharge, bestDischarge, bestSavings := charge, discharge, current

	for i := 0; i < touIterations; i++ {
		step := touInitialStep * (1 - float64(i)/touIterations)

		// Each parameter moves to a strictly improving neighbor; ties stay.
		charge, current, err = s.improve(eval, charge, discharge, step, min, avg, current, true)
		if err != nil {
			return Result{}, err
		}
		discharge, current, err = s.improve(eval, charge, discharge, step, avg, max, current, false)
		if err != nil {
			return Result{}, err
		}

		if current > bestSavings {
			bestCharge, bestDischarge, bestSavings = charge, discharge, current
		}
		rec.trial(map[string]float64{"charge_threshold": charge, "discharge_threshold": discharge}, current, false)
	}

	params := map[string]float64{"charge_threshold": bestCharge, "discharge_threshold": bestDischarge}
	rec.trial(params, bestSavings, true)
	rec.log.Infof("tou threshold search done: charge=%.4f discharge=%.4f savings=%.4f", bestCharge, bestDischarge, bestSavings)
	return Result{RunID: rec.runID, Search: rec.name, Parameters: params, Savings: bestSavings}, nil
}

// improve evaluates the +step and -step neighbors of one coordinate and
// moves only on a strict improvement.
func (s TOUThresholdSearch) improve(eval func(c, d float64) (float64, error), charge, discharge, step, lo, hi, current float64, onCharge bool) (float64, float64, error) {
	value := charge
	if !onCharge {
		value = discharge
	}
	bestValue, bestSavings := value, current
	for _, cand := range []float64{clamp(value+step, lo, hi), clamp(value-step, lo, hi)} {
		if cand == value {
			continue
		}
		var savings float64
		var err error
		if onCharge {
			savings, err = eval(cand, discharge)
		} else {
			savings, err = eval(charge, cand)
		}
		if err != nil {
			return 0, 0, err
		}
		if savings > bestSavings {
			bestValue, bestSavings = cand, savings
		}
	}
	return bestValue, bestSavings, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
