package app

import (
	"errors"
	"testing"

	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Battery: config.BatteryConfig{
			CapacityKWh:         10,
			MaxChargeKW:         5,
			MaxDischargeKW:      5,
			RoundTripEfficiency: 0.92,
			MaxDepthOfDischarge: 0.9,
			CycleLife:           5000,
			CalendarLifeYears:   12,
			CostPerKWh:          400,
		},
		Simulation: config.SimulationConfig{
			Policy:            "self_consumption",
			InitialSoCPercent: 50,
			Days:              2,
		},
	}
}

func TestService_Simulate(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	results, err := svc.Simulate()
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestService_Simulate_RejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -1} {
		cfg := testConfig()
		cfg.Simulation.Days = days
		svc, err := New(cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		_, err = svc.Simulate()
		var invalid model.InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("days=%d: got %v, want InvalidInputError", days, err)
		}
	}
}
