package optimize

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/finance"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/core/model"
	"github.com/kilianp07/bessim/core/sim"
)

const (
	sizeCandidates = 10
	// Headroom over the daily shiftable energy when bounding the search.
	sizeUpperMargin = 1.2
	sizeMinimumKWh  = 0.1
)

// SizeSearch discretely searches battery capacities, scoring each candidate
// by the net present value of a self-consumption operation projected from a
// representative day of the annual profiles.
type SizeSearch struct {
	// Template carries the cost, efficiency and lifetime parameters; its
	// power limits are scaled with the candidate capacity.
	Template          model.BatterySpec
	Tariff            dispatch.Tariff
	Assumptions       finance.Assumptions
	InitialSoCPercent float64

	Sink metrics.TrialRecorder
	Log  logger.Logger
}

// Optimize expects full annual hourly profiles (a whole number of days).
func (s SizeSearch) Optimize(loadKW, productionKW []float64) (Result, error) {
	rec := newRecorder("battery_size", s.Sink, s.Log)

	if len(loadKW) != len(productionKW) || len(loadKW) < sim.HoursPerDay || len(loadKW)%sim.HoursPerDay != 0 {
		return Result{}, model.InvalidInputError{
			Field: "annual_profiles", Reason: "must be equal length and a whole number of days",
		}
	}

	days := len(loadKW) / sim.HoursPerDay
	surpluses := make([]float64, days)
	deficits := make([]float64, days)
	repLoad := make([]float64, sim.HoursPerDay)
	repProd := make([]float64, sim.HoursPerDay)
	for d := 0; d < days; d++ {
		for h := 0; h < sim.HoursPerDay; h++ {
			load := loadKW[d*sim.HoursPerDay+h]
			prod := productionKW[d*sim.HoursPerDay+h]
			repLoad[h] += load / float64(days)
			repProd[h] += prod / float64(days)
			if prod > load {
				surpluses[d] += prod - load
			} else {
				deficits[d] += load - prod
			}
		}
	}

	shiftable := math.Min(stat.Mean(surpluses, nil), stat.Mean(deficits, nil))
	upper := shiftable * sizeUpperMargin / s.Template.OneWayEfficiency()

	best := Result{RunID: rec.runID, Search: rec.name, NPV: math.Inf(-1)}
	for i := 1; i <= sizeCandidates; i++ {
		capacity := upper * float64(i) / sizeCandidates
		if capacity < sizeMinimumKWh {
			continue
		}
		spec := s.scaledSpec(capacity)

		engine := dispatch.Engine{Spec: spec, Policy: dispatch.SelfConsumption{}, Tariff: s.Tariff}
		state := model.NewBatteryState(spec, s.InitialSoCPercent)
		result, _, err := sim.Run(engine, state, repLoad, repProd)
		if err != nil {
			return Result{}, err
		}

		dailySavings := sim.BaselineCost(s.Tariff, repLoad, repProd) - result.DailyCost
		annualCycles := result.CycleEquivalent * 365
		report := finance.Project(spec, dailySavings, annualCycles, s.Assumptions)
		rec.trial(map[string]float64{"capacity_kwh": capacity}, report.NPV, false)

		if report.NPV > best.NPV {
			best.NPV = report.NPV
			best.Savings = dailySavings
			best.Parameters = map[string]float64{
				"capacity_kwh":     capacity,
				"max_charge_kw":    spec.MaxChargeKW,
				"max_discharge_kw": spec.MaxDischargeKW,
				"annual_cycles":    annualCycles,
				"simple_payback":   report.SimplePayback,
				"internal_rate":    report.IRR,
			}
		}
	}

	if best.Parameters == nil {
		// Nothing worth installing: every candidate fell under the floor.
		best.NPV = 0
		best.Parameters = map[string]float64{"capacity_kwh": 0}
	}
	rec.trial(best.Parameters, best.NPV, true)
	rec.log.Infof("size search done: capacity=%.2fkWh npv=%.2f", best.Parameters["capacity_kwh"], best.NPV)
	return best, nil
}

// scaledSpec derives a candidate spec, keeping the template's power-to-energy
// ratio and all cost and lifetime parameters.
func (s SizeSearch) scaledSpec(capacity float64) model.BatterySpec {
	spec := s.Template
	ratio := 0.5
	if s.Template.CapacityKWh > 0 {
		ratio = s.Template.MaxChargeKW / s.Template.CapacityKWh
	}
	dischargeRatio := ratio
	if s.Template.CapacityKWh > 0 {
		dischargeRatio = s.Template.MaxDischargeKW / s.Template.CapacityKWh
	}
	spec.CapacityKWh = capacity
	spec.MaxChargeKW = capacity * ratio
	spec.MaxDischargeKW = capacity * dischargeRatio
	return spec
}
