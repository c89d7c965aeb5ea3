package dispatch

import "github.com/kilianp07/bessim/core/model"

// Decision tells the engine whether the battery may charge or discharge
// during the current hour. The engine still enforces power and SoC limits.
type Decision struct {
	Charge    bool
	Discharge bool
}

// Policy decides per hour whether to move energy through the battery.
// balanceKW is load minus production: negative means surplus.
type Policy interface {
	Name() string
	Decide(hour int, state model.BatteryState, balanceKW float64) Decision
}

// SelfConsumption stores every surplus and covers every deficit from the
// battery, maximising on-site use of production.
type SelfConsumption struct{}

func (SelfConsumption) Name() string { return "self_consumption" }

func (SelfConsumption) Decide(int, model.BatteryState, float64) Decision {
	return Decision{Charge: true, Discharge: true}
}

// TimeOfUse shifts energy from cheap to expensive hours. The core decision
// compares the current hour's rate against the schedule average. That
// average is duration-weighted over all 24 hours (uncovered hours count at
// the default rate), not load-weighted: Decide sees only the hour, so the
// tariff alone must determine it. The charge and discharge thresholds are
// carried for optimizer evaluation strategies and are not consulted here.
type TimeOfUse struct {
	Schedule           model.RateSchedule
	ChargeThreshold    float64
	DischargeThreshold float64
}

func (TimeOfUse) Name() string { return "time_of_use" }

func (p TimeOfUse) Decide(hour int, _ model.BatteryState, _ float64) Decision {
	rate := p.Schedule.RateAt(hour)
	avg := p.Schedule.AverageRate()
	return Decision{Charge: rate <= avg, Discharge: rate > avg}
}

// PeakShaving discharges only to clip imports above the configured limit.
// Without a limit it behaves like self-consumption on the discharge side.
type PeakShaving struct {
	GridImportLimitKW float64
}

func (PeakShaving) Name() string { return "peak_shaving" }

func (p PeakShaving) Decide(_ int, _ model.BatteryState, balanceKW float64) Decision {
	d := Decision{Charge: true, Discharge: true}
	if p.GridImportLimitKW > 0 {
		d.Discharge = balanceKW > 0.8*p.GridImportLimitKW
	}
	return d
}

// Backup keeps the battery charged as an outage reserve. Discharge behavior
// is not implemented; the variant exists for forward compatibility.
type Backup struct{}

func (Backup) Name() string { return "backup" }

func (Backup) Decide(int, model.BatteryState, float64) Decision {
	return Decision{Charge: true}
}

// GridServices is a placeholder for market-facing operation. Not implemented.
type GridServices struct{}

func (GridServices) Name() string { return "grid_services" }

func (GridServices) Decide(int, model.BatteryState, float64) Decision {
	return Decision{}
}
