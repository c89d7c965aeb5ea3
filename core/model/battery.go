package model

import (
	"fmt"
	"math"
)

// endOfLifeCapacityLoss is the fractional capacity loss that defines
// battery end-of-life for the degradation model.
const endOfLifeCapacityLoss = 0.2

// BatterySpec holds the immutable nameplate parameters of a storage asset.
type BatterySpec struct {
	CapacityKWh         float64 // usable capacity
	MaxChargeKW         float64 // maximum charging power
	MaxDischargeKW      float64 // maximum discharging power
	RoundTripEfficiency float64 // AC-to-AC efficiency in (0,1]
	MaxDepthOfDischarge float64 // usable fraction of capacity in (0,1]
	SelfDischargeRate   float64 // %/day, informational only
	CycleLife           float64 // equivalent full cycles to end-of-life
	CalendarLifeYears   float64 // years to end-of-life
	CostPerKWh          float64 // capital cost per kWh of capacity
	InstallationCost    float64 // fixed installation cost
}

// Validate checks that the spec parameters are physically sound.
func (s BatterySpec) Validate() error {
	if s.CapacityKWh <= 0 {
		return InvalidInputError{Field: "capacity_kwh", Reason: "must be positive"}
	}
	if s.MaxChargeKW <= 0 || s.MaxDischargeKW <= 0 {
		return InvalidInputError{Field: "max_power_kw", Reason: "must be positive"}
	}
	if s.RoundTripEfficiency <= 0 || s.RoundTripEfficiency > 1 {
		return InvalidInputError{Field: "round_trip_efficiency", Reason: "must be in (0,1]"}
	}
	if s.MaxDepthOfDischarge <= 0 || s.MaxDepthOfDischarge > 1 {
		return InvalidInputError{Field: "max_depth_of_discharge", Reason: "must be in (0,1]"}
	}
	if s.CycleLife <= 0 {
		return InvalidInputError{Field: "cycle_life", Reason: "must be positive"}
	}
	if s.CalendarLifeYears <= 0 {
		return InvalidInputError{Field: "calendar_life_years", Reason: "must be positive"}
	}
	return nil
}

// TotalCost returns the capital plus installation cost of the asset.
func (s BatterySpec) TotalCost() float64 {
	return s.CapacityKWh*s.CostPerKWh + s.InstallationCost
}

// OneWayEfficiency returns the per-leg efficiency, splitting round-trip
// losses symmetrically between the charge and discharge legs.
func (s BatterySpec) OneWayEfficiency() float64 {
	return math.Sqrt(s.RoundTripEfficiency)
}

// BatteryState is the mutable state of one simulated battery. It is a plain
// value: every transition returns a new state so optimizer trials can fork a
// session instead of relying on reset discipline.
type BatteryState struct {
	SoCKWh            float64 // current state of charge
	CumulativeCycles  float64 // equivalent full cycles so far
	CalendarAgeYears  float64 // elapsed simulated age
	DegradationFactor float64 // remaining capacity fraction, 1 = new
}

// NewBatteryState returns a fresh state at the given initial state of charge,
// expressed as a percentage of nameplate capacity.
func NewBatteryState(spec BatterySpec, initialSoCPercent float64) BatteryState {
	return BatteryState{
		SoCKWh:            spec.CapacityKWh * initialSoCPercent / 100,
		DegradationFactor: 1,
	}
}

// EffectiveCapacity returns the nameplate capacity reduced by degradation.
func (st BatteryState) EffectiveCapacity(spec BatterySpec) float64 {
	return spec.CapacityKWh * st.DegradationFactor
}

// MinSoC returns the state-of-charge floor implied by the depth-of-discharge
// limit on the current effective capacity.
func (st BatteryState) MinSoC(spec BatterySpec) float64 {
	return st.EffectiveCapacity(spec) * (1 - spec.MaxDepthOfDischarge)
}

// SoCPercent reports the state of charge relative to effective capacity.
func (st BatteryState) SoCPercent(spec BatterySpec) float64 {
	cap := st.EffectiveCapacity(spec)
	if cap <= 0 {
		return 0
	}
	return st.SoCKWh / cap * 100
}

// WithAging returns the state after one simulated day of aging: the worse of
// cycle and calendar aging dominates, with end-of-life at 20% capacity loss.
func (st BatteryState) WithAging(spec BatterySpec) BatteryState {
	next := st
	next.CalendarAgeYears += 1.0 / 365.0

	cycleAging := math.Min(1, next.CumulativeCycles/spec.CycleLife)
	calendarAging := math.Min(1, next.CalendarAgeYears/spec.CalendarLifeYears)
	combined := math.Max(cycleAging, calendarAging)
	next.DegradationFactor = 1 - endOfLifeCapacityLoss*combined

	// Clamp SoC into the shrunk envelope.
	if cap := next.EffectiveCapacity(spec); next.SoCKWh > cap {
		next.SoCKWh = cap
	}
	return next
}

func (st BatteryState) String() string {
	return fmt.Sprintf("soc=%.2fkWh cycles=%.2f age=%.3fy degradation=%.4f",
		st.SoCKWh, st.CumulativeCycles, st.CalendarAgeYears, st.DegradationFactor)
}
