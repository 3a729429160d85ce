// Package thermal implements the reference building-operation model: an
// hourly RC-network simulation of one building over a weather year.
package thermal

import (
	"math"

	"github.com/kfeurstein/flexion/core/model"
)

// SyntheticYear returns a deterministic hourly outdoor temperature profile
// with a seasonal and a diurnal component, degC.
func SyntheticYear() []float64 {
	temp := make([]float64, model.HoursPerYear)
	for h := range temp {
		day := float64(h / 24)
		hour := float64(h % 24)
		seasonal := 11 - 10*math.Cos(2*math.Pi*(day+10)/365)
		diurnal := 4 * math.Sin(2*math.Pi*(hour-9)/24)
		temp[h] = seasonal + diurnal
	}
	return temp
}

// SyntheticPrices returns a deterministic hourly electricity price profile
// with morning and evening peaks, EUR/kWh.
func SyntheticPrices() []float64 {
	price := make([]float64, model.HoursPerYear)
	for h := range price {
		hour := float64(h % 24)
		peak := 0.06*math.Exp(-sq(hour-8)/8) + 0.08*math.Exp(-sq(hour-19)/8)
		price[h] = 0.22 + peak
	}
	return price
}

func sq(x float64) float64 { return x * x }
