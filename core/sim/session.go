// Package sim drives the dispatch engine across simulated days and owns the
// battery state between them.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/model"
)

// HoursPerDay is the fixed resolution of one simulated day.
const HoursPerDay = 24

// Run simulates one day from an explicit state and returns the successor
// state alongside the daily result. It is pure: callers that need to compare
// trials can fork the input state instead of resetting a session.
func Run(engine dispatch.Engine, state model.BatteryState, loadKW, productionKW []float64) (model.DailyResult, model.BatteryState, error) {
	if len(loadKW) != HoursPerDay {
		return model.DailyResult{}, state, model.InvalidInputError{
			Field: "load_profile", Reason: fmt.Sprintf("expected %d hourly values, got %d", HoursPerDay, len(loadKW)),
		}
	}
	if len(productionKW) != HoursPerDay {
		return model.DailyResult{}, state, model.InvalidInputError{
			Field: "production_profile", Reason: fmt.Sprintf("expected %d hourly values, got %d", HoursPerDay, len(productionKW)),
		}
	}

	flows := make([]model.HourlyFlow, 0, HoursPerDay)
	chargeThroughput := 0.0
	dischargeThroughput := 0.0
	for h := 0; h < HoursPerDay; h++ {
		flow, next := engine.Step(state, h, loadKW[h], productionKW[h])
		flows = append(flows, flow)
		chargeThroughput += flow.BatteryChargeKW
		dischargeThroughput += flow.BatteryDischargeKW
		state = next
	}

	result := aggregate(engine, state, flows, loadKW, productionKW, chargeThroughput, dischargeThroughput)

	state.CumulativeCycles += result.CycleEquivalent
	state = state.WithAging(engine.Spec)
	result.DegradationFactor = state.DegradationFactor
	return result, state, nil
}

func aggregate(engine dispatch.Engine, state model.BatteryState, flows []model.HourlyFlow, loadKW, productionKW []float64, chargeThroughput, dischargeThroughput float64) model.DailyResult {
	result := model.DailyResult{
		Flows:              flows,
		TotalLoadKWh:       floats.Sum(loadKW),
		TotalProductionKWh: floats.Sum(productionKW),
	}
	for _, f := range flows {
		result.GridImportKWh += f.GridImportKW
		result.GridExportKWh += f.GridExportKW
		result.DailyCost += f.Cost
	}

	if result.TotalProductionKWh > 0 {
		selfConsumed := result.TotalProductionKWh - result.GridExportKWh
		result.SelfConsumptionRate = selfConsumed / result.TotalProductionKWh
	}
	if result.TotalLoadKWh > 0 {
		result.SelfSufficiencyRate = (result.TotalLoadKWh - result.GridImportKWh) / result.TotalLoadKWh
	}

	effCap := state.EffectiveCapacity(engine.Spec)
	if effCap > 0 {
		result.CycleEquivalent = chargeThroughput / effCap
	}
	if usable := effCap * engine.Spec.MaxDepthOfDischarge; usable > 0 {
		result.Utilization = dischargeThroughput / usable
	}
	return result
}

// Session owns one battery state across consecutive simulated days. It must
// not be shared between concurrent trials; fork states through Run instead.
type Session struct {
	engine dispatch.Engine
	state  model.BatteryState
	log    logger.Logger
}

// NewSession creates a session at the given initial state of charge percentage.
func NewSession(engine dispatch.Engine, initialSoCPercent float64, log logger.Logger) (*Session, error) {
	if err := engine.Spec.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Session{
		engine: engine,
		state:  model.NewBatteryState(engine.Spec, initialSoCPercent),
		log:    log,
	}, nil
}

// Reset restores the session to a fresh state at the given state of charge
// percentage, zeroing cycles and calendar age. Callers must reset between
// independent comparative runs to avoid state leakage.
func (s *Session) Reset(initialSoCPercent float64) {
	s.state = model.NewBatteryState(s.engine.Spec, initialSoCPercent)
}

// State returns a copy of the current battery state.
func (s *Session) State() model.BatteryState { return s.state }

// Engine returns the engine the session simulates with.
func (s *Session) Engine() dispatch.Engine { return s.engine }

// SimulateDay runs the next 24 hours and applies the end-of-day aging update.
func (s *Session) SimulateDay(loadKW, productionKW []float64) (model.DailyResult, error) {
	result, next, err := Run(s.engine, s.state, loadKW, productionKW)
	if err != nil {
		return model.DailyResult{}, err
	}
	s.state = next
	s.log.Debugw("day simulated", map[string]any{
		"policy":           s.engine.Policy.Name(),
		"daily_cost":       result.DailyCost,
		"self_consumption": result.SelfConsumptionRate,
		"cycles":           s.state.CumulativeCycles,
	})
	return result, nil
}

// SimulateDays feeds consecutive 24-hour slices of an annual profile through
// the session. Both profiles must be the same whole number of days long.
func (s *Session) SimulateDays(loadKW, productionKW []float64) ([]model.DailyResult, error) {
	if len(loadKW) != len(productionKW) || len(loadKW)%HoursPerDay != 0 {
		return nil, model.InvalidInputError{
			Field: "profiles", Reason: "must be equal length and a whole number of days",
		}
	}
	results := make([]model.DailyResult, 0, len(loadKW)/HoursPerDay)
	for off := 0; off < len(loadKW); off += HoursPerDay {
		res, err := s.SimulateDay(loadKW[off:off+HoursPerDay], productionKW[off:off+HoursPerDay])
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// BaselineCost returns the daily grid cost of the same profiles without any
// battery, used as the reference when scoring savings.
func BaselineCost(tariff dispatch.Tariff, loadKW, productionKW []float64) float64 {
	cost := 0.0
	for h := 0; h < len(loadKW) && h < len(productionKW); h++ {
		balance := loadKW[h] - productionKW[h]
		if balance > 0 {
			cost += balance * tariff.ImportRate(h % HoursPerDay)
		} else {
			cost -= -balance * tariff.ExportRate
		}
	}
	return cost
}
