package optimize

import (
	"fmt"

	"github.com/kfeurstein/flexion/core/model"
	"github.com/kfeurstein/flexion/core/thermal"
)

const hoursPerDay = 24

// Instance is the reusable solver workspace. It is built once per worker
// and shared across that worker's scenarios to amortize setup cost.
type Instance struct {
	ref  thermal.RefSolver
	caps []float64
	day  []float64
}

// NewInstance creates a solver instance.
func NewInstance() *Instance {
	return &Instance{
		caps: make([]float64, hoursPerDay),
		day:  make([]float64, hoursPerDay),
	}
}

// Solve runs the optimization model for one scenario. The boolean reports
// solver success: an infeasible or failed dispatch is not an error, the
// scenario is simply skipped. Errors are reserved for malformed input.
func (in *Instance) Solve(sc model.Scenario) (*model.ResultModel, bool, error) {
	base, err := in.ref.Solve(sc)
	if err != nil {
		return nil, false, fmt.Errorf("baseline solve: %w", err)
	}

	b := sc.Building
	capElec := b.MaxHeatingPower / b.HeatPumpCOP

	res := &model.ResultModel{
		ScenarioID:    sc.ID,
		HeatingKW:     make([]float64, model.HoursPerYear),
		CoolingKW:     base.CoolingKW,
		ElectricityKW: make([]float64, model.HoursPerYear),
		IndoorTempC:   base.IndoorTempC,
		CostEUR:       make([]float64, model.HoursPerYear),
	}

	for start := 0; start < model.HoursPerYear; start += hoursPerDay {
		var target float64
		for i := 0; i < hoursPerDay; i++ {
			in.day[i] = base.HeatingKW[start+i] / b.HeatPumpCOP
			in.caps[i] = capElec
			target += in.day[i]
		}
		if target == 0 {
			continue
		}
		sol, err := lpSolve(sc.Price[start:start+hoursPerDay], in.caps, target)
		if err != nil {
			// Infeasible day: no optimized profile for this scenario.
			return nil, false, nil
		}
		for i, x := range sol {
			if x < 0 {
				x = 0
			}
			if x > in.caps[i] {
				x = in.caps[i]
			}
			res.HeatingKW[start+i] = x * b.HeatPumpCOP
		}
	}

	for h := 0; h < model.HoursPerYear; h++ {
		elec := res.HeatingKW[h]/b.HeatPumpCOP + res.CoolingKW[h]/b.HeatPumpCOP + b.BaseLoad
		res.ElectricityKW[h] = elec
		res.CostEUR[h] = elec * sc.Price[h]
	}
	return res, true, nil
}
