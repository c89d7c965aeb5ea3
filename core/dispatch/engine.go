package dispatch

import (
	"math"

	"github.com/kilianp07/bessim/core/model"
)

// Tariff prices grid exchanges. Import prices follow the time-of-use
// schedule (default rate for uncovered hours), exports earn a flat rate.
type Tariff struct {
	Schedule   model.RateSchedule
	ExportRate float64
}

// ImportRate returns the import price for the given hour of day.
func (t Tariff) ImportRate(hour int) float64 {
	return t.Schedule.RateAt(hour)
}

// Engine computes the energy balance of a single hour. Step is a pure
// function of (state, inputs): it never retains state between calls, so one
// engine value can serve any number of concurrent sessions.
type Engine struct {
	Spec   model.BatterySpec
	Policy Policy
	Tariff Tariff

	// Optional grid caps in kW; zero or negative means unlimited. When a
	// binding cap leaves energy unserved or unabsorbed, that energy is
	// simply dropped.
	ImportLimitKW float64
	ExportLimitKW float64
}

// Step advances the battery through one hour of the given load and
// production and returns the resulting flows and successor state.
func (e Engine) Step(state model.BatteryState, hour int, loadKW, productionKW float64) (model.HourlyFlow, model.BatteryState) {
	flow := model.HourlyFlow{Hour: hour, SoCStartKWh: state.SoCKWh}
	next := state

	eta := e.Spec.OneWayEfficiency()
	effCap := state.EffectiveCapacity(e.Spec)
	balance := loadKW - productionKW
	decision := e.Policy.Decide(hour, state, balance)

	if balance < 0 {
		surplus := -balance
		flow.PVToLoadKW = loadKW

		if decision.Charge && next.SoCKWh < effCap {
			charge := math.Min(surplus, e.Spec.MaxChargeKW)
			charge = math.Min(charge, (effCap-next.SoCKWh)/eta)
			next.SoCKWh += charge * eta
			flow.BatteryChargeKW = charge
			flow.PVToBatteryKW = charge
			surplus -= charge
		}

		flow.GridExportKW = e.capExport(surplus)
		flow.PVToGridKW = flow.GridExportKW
	} else {
		deficit := balance
		flow.PVToLoadKW = productionKW
		minSoC := state.MinSoC(e.Spec)

		if decision.Discharge && next.SoCKWh > minSoC {
			discharge := math.Min(deficit, e.Spec.MaxDischargeKW)
			discharge = math.Min(discharge, (next.SoCKWh-minSoC)*eta)
			next.SoCKWh -= discharge / eta
			flow.BatteryDischargeKW = discharge
			flow.BatteryToLoadKW = discharge
			deficit -= discharge
		}

		flow.GridImportKW = e.capImport(deficit)
		flow.GridToLoadKW = flow.GridImportKW
	}

	flow.Cost = flow.GridImportKW*e.Tariff.ImportRate(hour) - flow.GridExportKW*e.Tariff.ExportRate
	flow.SoCEndKWh = next.SoCKWh
	return flow, next
}

func (e Engine) capImport(kw float64) float64 {
	if e.ImportLimitKW > 0 && kw > e.ImportLimitKW {
		return e.ImportLimitKW
	}
	return kw
}

func (e Engine) capExport(kw float64) float64 {
	if e.ExportLimitKW > 0 && kw > e.ExportLimitKW {
		return e.ExportLimitKW
	}
	return kw
}
