package optimize

import (
	"testing"

	"github.com/kilianp07/bessim/core/dispatch"
	"github.com/kilianp07/bessim/core/finance"
	"github.com/kilianp07/bessim/core/model"
)

func annualProfiles(days int) (load, production []float64) {
	dayLoad, dayProd := sunnyDay()
	load = make([]float64, 0, days*24)
	production = make([]float64, 0, days*24)
	for i := 0; i < days; i++ {
		load = append(load, dayLoad...)
		production = append(production, dayProd...)
	}
	return load, production
}

func TestSizeSearch_FindsCapacityWithinBound(t *testing.T) {
	search := SizeSearch{
		Template: testSpec(),
		Tariff: dispatch.Tariff{
			Schedule:   model.RateSchedule{{StartHour: 0, EndHour: 24, Rate: 0.30}},
			ExportRate: 0.03,
		},
		Assumptions:       finance.Assumptions{YearsToProject: 15, DiscountRate: 0.05, PriceInflation: 0.02},
		InitialSoCPercent: 50,
	}
	load, production := annualProfiles(365)

	result, err := search.Optimize(load, production)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	capacity := result.Parameters["capacity_kwh"]
	if capacity <= 0 {
		t.Fatalf("no capacity selected: %+v", result.Parameters)
	}
	// Daily surplus and deficit are both bounded by the profile totals, so
	// the candidate bound caps the result.
	spec := testSpec()
	upper := 19.0 * sizeUpperMargin / spec.OneWayEfficiency()
	if capacity > upper {
		t.Fatalf("capacity %v exceeds bound %v", capacity, upper)
	}
}

func TestSizeSearch_ScalesPowerWithCapacity(t *testing.T) {
	search := SizeSearch{Template: testSpec()}
	spec := search.scaledSpec(20)
	if spec.CapacityKWh != 20 {
		t.Fatalf("capacity %v", spec.CapacityKWh)
	}
	// Template is 10 kWh with 5 kW: the C-rate is preserved.
	if spec.MaxChargeKW != 10 || spec.MaxDischargeKW != 10 {
		t.Fatalf("power not scaled: %v / %v", spec.MaxChargeKW, spec.MaxDischargeKW)
	}
	if spec.CostPerKWh != 400 {
		t.Fatalf("cost parameters must carry over")
	}
}

func TestSizeSearch_RejectsPartialYears(t *testing.T) {
	search := SizeSearch{Template: testSpec()}
	if _, err := search.Optimize(make([]float64, 100), make([]float64, 100)); err == nil {
		t.Fatalf("expected error for partial days")
	}
	if _, err := search.Optimize(make([]float64, 48), make([]float64, 24)); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}

func TestSizeSearch_TinyShiftableEnergy(t *testing.T) {
	search := SizeSearch{
		Template:          testSpec(),
		Tariff:            dispatch.Tariff{},
		InitialSoCPercent: 50,
	}
	// No surplus at all: every candidate falls under the minimum size.
	load := make([]float64, 48)
	production := make([]float64, 48)
	for h := range load {
		load[h] = 1
	}
	result, err := search.Optimize(load, production)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if result.Parameters["capacity_kwh"] != 0 {
		t.Fatalf("expected zero capacity, got %v", result.Parameters["capacity_kwh"])
	}
}
