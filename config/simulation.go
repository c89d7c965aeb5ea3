package config

import (
	"fmt"

	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/model"
)

// TariffConfig defines the time-of-use schedule and export remuneration.
type TariffConfig struct {
	Rates      []model.TimeOfUseRate `json:"rates"`
	ExportRate float64               `json:"export_rate"`
}

// Tariff converts the configuration into the engine tariff.
func (c TariffConfig) Tariff() dispatch.Tariff {
	return dispatch.Tariff{Schedule: model.RateSchedule(c.Rates), ExportRate: c.ExportRate}
}

// Validate checks the schedule intervals.
func (c TariffConfig) Validate() error {
	if c.ExportRate < 0 {
		return model.InvalidInputError{Field: "export_rate", Reason: "must be non-negative"}
	}
	return model.RateSchedule(c.Rates).Validate()
}

// SimulationConfig selects the dispatch policy and session parameters.
type SimulationConfig struct {
	// Policy is one of self_consumption, time_of_use, peak_shaving,
	// backup, grid_services.
	Policy            string  `json:"policy"`
	InitialSoCPercent float64 `json:"initial_soc_percent"`
	GridImportLimitKW float64 `json:"grid_import_limit_kw"`
	Days              int     `json:"days"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Policy == "" {
		c.Policy = "self_consumption"
	}
	if c.InitialSoCPercent == 0 {
		c.InitialSoCPercent = 50
	}
	if c.Days == 0 {
		c.Days = 1
	}
}

// Validate checks the policy name and session parameters.
func (c SimulationConfig) Validate() error {
	switch c.Policy {
	case "self_consumption", "time_of_use", "peak_shaving", "backup", "grid_services":
	default:
		return fmt.Errorf("unknown policy %s", c.Policy)
	}
	if c.InitialSoCPercent < 0 || c.InitialSoCPercent > 100 {
		return model.InvalidInputError{Field: "initial_soc_percent", Reason: "must be in [0,100]"}
	}
	if c.Days < 1 {
		return model.InvalidInputError{Field: "days", Reason: "must be at least 1"}
	}
	return nil
}

// BuildPolicy builds the configured dispatch policy.
func (c SimulationConfig) BuildPolicy(tariff dispatch.Tariff) dispatch.Policy {
	switch c.Policy {
	case "time_of_use":
		return dispatch.TimeOfUse{Schedule: tariff.Schedule}
	case "peak_shaving":
		return dispatch.PeakShaving{GridImportLimitKW: c.GridImportLimitKW}
	case "backup":
		return dispatch.Backup{}
	case "grid_services":
		return dispatch.GridServices{}
	default:
		return dispatch.SelfConsumption{}
	}
}

// OptimizerConfig parameterizes the search procedures.
type OptimizerConfig struct {
	DemandChargeRate float64 `json:"demand_charge_rate"`
}
