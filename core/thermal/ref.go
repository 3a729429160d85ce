package thermal

import (
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
)

// RefSolver solves the reference operation model: a thermostat-controlled
// 1R1C building simulated hour by hour. It has no soft-failure mode; any
// error is fatal to the calling partition.
type RefSolver struct{}

// Solve simulates one scenario over the weather year.
func (RefSolver) Solve(sc model.Scenario) (*model.ResultModel, error) {
	b := sc.Building
	if b.ThermalResistance <= 0 || b.ThermalCapacity <= 0 {
		return nil, fmt.Errorf("scenario %d: non-physical RC parameters (R=%.3f, C=%.3f)", sc.ID, b.ThermalResistance, b.ThermalCapacity)
	}
	if b.HeatPumpCOP <= 0 {
		return nil, fmt.Errorf("scenario %d: COP must be positive, got %.3f", sc.ID, b.HeatPumpCOP)
	}
	if len(sc.OutdoorTemp) != model.HoursPerYear || len(sc.Price) != model.HoursPerYear {
		return nil, fmt.Errorf("scenario %d: boundary profiles must hold %d hours", sc.ID, model.HoursPerYear)
	}

	res := &model.ResultModel{
		ScenarioID:    sc.ID,
		HeatingKW:     make([]float64, model.HoursPerYear),
		CoolingKW:     make([]float64, model.HoursPerYear),
		ElectricityKW: make([]float64, model.HoursPerYear),
		IndoorTempC:   make([]float64, model.HoursPerYear),
		CostEUR:       make([]float64, model.HoursPerYear),
	}

	indoor := b.HeatingSetpoint
	for h := 0; h < model.HoursPerYear; h++ {
		outdoor := sc.OutdoorTemp[h]
		loss := (indoor - outdoor) / b.ThermalResistance // kW, positive = losing heat

		var heat, cool float64
		if indoor < b.HeatingSetpoint {
			// Thermal power needed to reach the setpoint within the hour,
			// compensating the envelope loss.
			heat = clamp(b.ThermalCapacity*(b.HeatingSetpoint-indoor)+loss, 0, b.MaxHeatingPower)
		} else if indoor > b.CoolingSetpoint {
			cool = clamp(b.ThermalCapacity*(indoor-b.CoolingSetpoint)-loss, 0, b.MaxCoolingPower)
		}

		// One-hour explicit Euler step of the 1R1C node.
		indoor += (heat - cool - loss) / b.ThermalCapacity

		elec := heat/b.HeatPumpCOP + cool/b.HeatPumpCOP + b.BaseLoad
		res.HeatingKW[h] = heat
		res.CoolingKW[h] = cool
		res.ElectricityKW[h] = elec
		res.IndoorTempC[h] = indoor
		res.CostEUR[h] = elec * sc.Price[h]
	}
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
