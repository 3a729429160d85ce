package thermal

import (
	"context"
	"testing"

	"github.com/kfeurstein/flexion/core/model"
)

func testBuilding() model.Building {
	return model.Building{
		ThermalResistance: 6, ThermalCapacity: 12, HeatedArea: 100,
		HeatPumpCOP: 3, MaxHeatingPower: 10, MaxCoolingPower: 6,
		HeatingSetpoint: 20, CoolingSetpoint: 25, ComfortBand: 2, BaseLoad: 0.3,
	}
}

func testScenario() model.Scenario {
	return model.Scenario{
		ID:          1,
		Building:    testBuilding(),
		OutdoorTemp: SyntheticYear(),
		Price:       SyntheticPrices(),
	}
}

func TestSolveProducesFullProfiles(t *testing.T) {
	res, err := RefSolver{}.Solve(testScenario())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, v := range res.Variables() {
		if len(v.Values) != model.HoursPerYear {
			t.Fatalf("%s has %d hours", v.Name, len(v.Values))
		}
	}
	y := res.Year()
	if y.HeatingKWh <= 0 {
		t.Fatalf("expected heating demand, got %f", y.HeatingKWh)
	}
	if y.ElectricityKWh <= float64(model.HoursPerYear)*testBuilding().BaseLoad-1 {
		t.Fatalf("electricity %f below base load", y.ElectricityKWh)
	}
	if y.CostEUR <= 0 {
		t.Fatalf("expected positive cost, got %f", y.CostEUR)
	}
}

func TestSolveKeepsComfort(t *testing.T) {
	res, err := RefSolver{}.Solve(testScenario())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	b := testBuilding()
	for h, temp := range res.IndoorTempC {
		if temp < b.HeatingSetpoint-5 || temp > b.CoolingSetpoint+5 {
			t.Fatalf("hour %d indoor temp %f far outside comfort", h, temp)
		}
	}
}

func TestSolveRespectsPowerLimits(t *testing.T) {
	res, err := RefSolver{}.Solve(testScenario())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	b := testBuilding()
	for h := range res.HeatingKW {
		if res.HeatingKW[h] < 0 || res.HeatingKW[h] > b.MaxHeatingPower {
			t.Fatalf("hour %d heating %f out of bounds", h, res.HeatingKW[h])
		}
		if res.CoolingKW[h] < 0 || res.CoolingKW[h] > b.MaxCoolingPower {
			t.Fatalf("hour %d cooling %f out of bounds", h, res.CoolingKW[h])
		}
	}
}

func TestSolveRejectsNonPhysicalInput(t *testing.T) {
	sc := testScenario()
	sc.Building.ThermalCapacity = 0
	if _, err := (RefSolver{}).Solve(sc); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	sc = testScenario()
	sc.OutdoorTemp = sc.OutdoorTemp[:100]
	if _, err := (RefSolver{}).Solve(sc); err == nil {
		t.Fatal("expected error for short profile")
	}
}

type readerFunc func(ctx context.Context, id model.ScenarioID) (model.Building, error)

func (f readerFunc) Scenario(ctx context.Context, id model.ScenarioID) (model.Building, error) {
	return f(ctx, id)
}

func TestBuilderResolvesScenario(t *testing.T) {
	b := NewBuilder(readerFunc(func(_ context.Context, id model.ScenarioID) (model.Building, error) {
		return testBuilding(), nil
	}))
	sc, err := b.Build(context.Background(), 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sc.ID != 7 {
		t.Fatalf("id = %d", sc.ID)
	}
	if len(sc.OutdoorTemp) != model.HoursPerYear || len(sc.Price) != model.HoursPerYear {
		t.Fatal("boundary profiles not attached")
	}
}
