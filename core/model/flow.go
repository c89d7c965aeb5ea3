package model

// HourlyFlow captures the energy flows of one simulated hour. With a one
// hour step, power in kW and energy in kWh are numerically interchangeable.
type HourlyFlow struct {
	Hour int

	SoCStartKWh float64
	SoCEndKWh   float64

	BatteryChargeKW    float64 // power drawn into the battery
	BatteryDischargeKW float64 // power delivered by the battery
	GridImportKW       float64
	GridExportKW       float64

	// Load coverage decomposition. Invariant:
	// load = PVToLoad + BatteryToLoad + GridToLoad and
	// production = PVToLoad + PVToBattery + PVToGrid.
	PVToLoadKW      float64
	BatteryToLoadKW float64
	GridToLoadKW    float64
	PVToBatteryKW   float64
	PVToGridKW      float64

	Cost float64 // import cost minus export revenue for the hour
}

// DailyResult aggregates 24 hourly flows and the day's key metrics.
type DailyResult struct {
	Flows []HourlyFlow

	TotalProductionKWh float64
	TotalLoadKWh       float64
	GridImportKWh      float64
	GridExportKWh      float64

	SelfConsumptionRate float64 // on-site production consumed on-site
	SelfSufficiencyRate float64 // load met without grid import
	DailyCost           float64
	CycleEquivalent     float64 // charge throughput over effective capacity
	Utilization         float64 // discharge throughput over usable capacity

	DegradationFactor float64 // factor in effect after the day's aging update
}

// PeakImportKW returns the highest grid import power over the day.
func (r DailyResult) PeakImportKW() float64 {
	peak := 0.0
	for _, f := range r.Flows {
		if f.GridImportKW > peak {
			peak = f.GridImportKW
		}
	}
	return peak
}
