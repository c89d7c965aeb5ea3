package config

import "github.com/kilianp07/bessim/core/model"

// BatteryConfig mirrors model.BatterySpec for configuration files.
type BatteryConfig struct {
	CapacityKWh         float64 `json:"capacity_kwh"`
	MaxChargeKW         float64 `json:"max_charge_kw"`
	MaxDischargeKW      float64 `json:"max_discharge_kw"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	MaxDepthOfDischarge float64 `json:"max_depth_of_discharge"`
	SelfDischargeRate   float64 `json:"self_discharge_rate"`
	CycleLife           float64 `json:"cycle_life"`
	CalendarLifeYears   float64 `json:"calendar_life_years"`
	CostPerKWh          float64 `json:"cost_per_kwh"`
	InstallationCost    float64 `json:"installation_cost"`
}

// Spec converts the configuration into the core spec value.
func (c BatteryConfig) Spec() model.BatterySpec {
	return model.BatterySpec{
		CapacityKWh:         c.CapacityKWh,
		MaxChargeKW:         c.MaxChargeKW,
		MaxDischargeKW:      c.MaxDischargeKW,
		RoundTripEfficiency: c.RoundTripEfficiency,
		MaxDepthOfDischarge: c.MaxDepthOfDischarge,
		SelfDischargeRate:   c.SelfDischargeRate,
		CycleLife:           c.CycleLife,
		CalendarLifeYears:   c.CalendarLifeYears,
		CostPerKWh:          c.CostPerKWh,
		InstallationCost:    c.InstallationCost,
	}
}

// Validate delegates to the core spec invariants.
func (c BatteryConfig) Validate() error {
	return c.Spec().Validate()
}
