package dispatch

import (
	"math"
	"testing"

	"github.com/kilianp07/bessim/core/model"
)

const eps = 1e-6

func testSpec() model.BatterySpec {
	return model.BatterySpec{
		CapacityKWh:         10,
		MaxChargeKW:         5,
		MaxDischargeKW:      5,
		RoundTripEfficiency: 0.92,
		MaxDepthOfDischarge: 0.9,
		CycleLife:           5000,
		CalendarLifeYears:   12,
	}
}

func testEngine(p Policy) Engine {
	return Engine{Spec: testSpec(), Policy: p, Tariff: Tariff{ExportRate: 0.05}}
}

func checkConservation(t *testing.T, f model.HourlyFlow, loadKW, productionKW float64) {
	t.Helper()
	if got := f.PVToLoadKW + f.BatteryToLoadKW + f.GridToLoadKW; math.Abs(got-loadKW) > eps {
		t.Errorf("hour %d: load coverage %v, want %v", f.Hour, got, loadKW)
	}
	if got := f.PVToLoadKW + f.PVToBatteryKW + f.PVToGridKW; math.Abs(got-productionKW) > eps {
		t.Errorf("hour %d: production split %v, want %v", f.Hour, got, productionKW)
	}
}

func TestEngine_EnergyConservation(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	state := model.NewBatteryState(engine.Spec, 50)

	load := []float64{1, 1, 1, 1, 1, 1, 2, 3, 2, 1, 1, 1, 1, 1, 1, 1, 2, 3, 4, 4, 3, 2, 1, 1}
	production := []float64{0, 0, 0, 0, 0, 0, 0, 1, 2, 4, 5, 6, 6, 5, 4, 2, 1, 0, 0, 0, 0, 0, 0, 0}
	for h := 0; h < 24; h++ {
		flow, next := engine.Step(state, h, load[h], production[h])
		checkConservation(t, flow, load[h], production[h])
		state = next
	}
}

func TestEngine_SoCBounds(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	state := model.NewBatteryState(engine.Spec, 50)

	// Alternate hard charge and hard discharge hours.
	for h := 0; h < 48; h++ {
		load, production := 0.0, 8.0
		if h%2 == 1 {
			load, production = 8.0, 0.0
		}
		flow, next := engine.Step(state, h%24, load, production)
		state = next
		if state.SoCKWh < state.MinSoC(engine.Spec)-eps {
			t.Fatalf("hour %d: SoC %v below floor %v", h, state.SoCKWh, state.MinSoC(engine.Spec))
		}
		if state.SoCKWh > state.EffectiveCapacity(engine.Spec)+eps {
			t.Fatalf("hour %d: SoC %v above capacity", h, state.SoCKWh)
		}
		checkConservation(t, flow, load, production)
	}
}

func TestEngine_ChargeUsesSqrtEfficiency(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	state := model.NewBatteryState(engine.Spec, 50)

	flow, next := engine.Step(state, 12, 1, 6)
	if math.Abs(flow.BatteryChargeKW-5) > eps {
		t.Fatalf("charge power %v, want 5 (surplus capped at max charge)", flow.BatteryChargeKW)
	}
	eta := math.Sqrt(0.92)
	if got, want := next.SoCKWh, 5+5*eta; math.Abs(got-want) > eps {
		t.Fatalf("SoC %v, want %v", got, want)
	}
	if flow.GridExportKW != 0 {
		t.Fatalf("unexpected export %v", flow.GridExportKW)
	}
}

func TestEngine_DischargeUsesSqrtEfficiency(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	state := model.NewBatteryState(engine.Spec, 50)

	flow, next := engine.Step(state, 20, 4, 0)
	eta := math.Sqrt(0.92)
	// Energy above the floor limits the delivered power.
	wantDischarge := math.Min(4, (5-1)*eta)
	if math.Abs(flow.BatteryDischargeKW-wantDischarge) > eps {
		t.Fatalf("discharge %v, want %v", flow.BatteryDischargeKW, wantDischarge)
	}
	if got, want := next.SoCKWh, 5-wantDischarge/eta; math.Abs(got-want) > eps {
		t.Fatalf("SoC %v, want %v", got, want)
	}
	if got, want := flow.GridImportKW, 4-wantDischarge; math.Abs(got-want) > eps {
		t.Fatalf("import %v, want %v", got, want)
	}
	checkConservation(t, flow, 4, 0)
}

func TestEngine_FullBatteryExports(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	state := model.NewBatteryState(engine.Spec, 100)

	flow, next := engine.Step(state, 12, 1, 6)
	if flow.BatteryChargeKW != 0 {
		t.Fatalf("full battery must not charge, got %v", flow.BatteryChargeKW)
	}
	if math.Abs(flow.GridExportKW-5) > eps {
		t.Fatalf("export %v, want 5", flow.GridExportKW)
	}
	if next.SoCKWh != state.SoCKWh {
		t.Fatalf("SoC changed on full battery")
	}
}

func TestEngine_ExportCapDropsUnabsorbedSurplus(t *testing.T) {
	engine := testEngine(SelfConsumption{})
	engine.ExportLimitKW = 2
	state := model.NewBatteryState(engine.Spec, 100)

	flow, _ := engine.Step(state, 12, 0, 6)
	if math.Abs(flow.GridExportKW-2) > eps {
		t.Fatalf("export %v, want cap 2", flow.GridExportKW)
	}
}

func TestEngine_ImportCapDropsUnservedDeficit(t *testing.T) {
	engine := testEngine(GridServices{}) // never discharges
	engine.ImportLimitKW = 3
	state := model.NewBatteryState(engine.Spec, 50)

	flow, _ := engine.Step(state, 19, 8, 0)
	if math.Abs(flow.GridImportKW-3) > eps {
		t.Fatalf("import %v, want cap 3", flow.GridImportKW)
	}
}

func TestEngine_HourCost(t *testing.T) {
	schedule := model.RateSchedule{{StartHour: 18, EndHour: 22, Rate: 0.30}}
	engine := Engine{Spec: testSpec(), Policy: GridServices{}, Tariff: Tariff{Schedule: schedule, ExportRate: 0.05}}
	state := model.NewBatteryState(engine.Spec, 50)

	flow, _ := engine.Step(state, 19, 2, 0)
	if got, want := flow.Cost, 2*0.30; math.Abs(got-want) > eps {
		t.Fatalf("import cost %v, want %v", got, want)
	}

	flow, _ = engine.Step(state, 12, 0, 3)
	if got, want := flow.Cost, -3*0.05; math.Abs(got-want) > eps {
		t.Fatalf("export revenue %v, want %v", got, want)
	}
}

func TestTimeOfUse_Decide(t *testing.T) {
	schedule := model.RateSchedule{
		{StartHour: 0, EndHour: 8, Rate: 0.10},
		{StartHour: 8, EndHour: 24, Rate: 0.30},
	}
	p := TimeOfUse{Schedule: schedule}

	cheap := p.Decide(3, model.BatteryState{}, -2)
	if !cheap.Charge || cheap.Discharge {
		t.Fatalf("cheap hour decision %+v, want charge only", cheap)
	}
	expensive := p.Decide(20, model.BatteryState{}, 2)
	if expensive.Charge || !expensive.Discharge {
		t.Fatalf("expensive hour decision %+v, want discharge only", expensive)
	}
}

func TestPeakShaving_Decide(t *testing.T) {
	p := PeakShaving{GridImportLimitKW: 10}
	if d := p.Decide(0, model.BatteryState{}, 7); d.Discharge {
		t.Fatalf("deficit below 80%% of limit must not discharge")
	}
	if d := p.Decide(0, model.BatteryState{}, 9); !d.Discharge {
		t.Fatalf("deficit above 80%% of limit must discharge")
	}
	unlimited := PeakShaving{}
	if d := unlimited.Decide(0, model.BatteryState{}, 1); !d.Discharge {
		t.Fatalf("without a limit peak shaving always discharges")
	}
}

func TestBackup_ReservesEnergy(t *testing.T) {
	d := Backup{}.Decide(0, model.BatteryState{}, 5)
	if d.Discharge {
		t.Fatalf("backup policy must not discharge")
	}
	d = Backup{}.Decide(0, model.BatteryState{}, -5)
	if !d.Charge {
		t.Fatalf("backup policy must charge on surplus")
	}
}
