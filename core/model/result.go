package model

// Hourly variable names as they appear in persisted artifacts.
const (
	VarHeating     = "heating_kw"
	VarCooling     = "cooling_kw"
	VarElectricity = "electricity_kw"
	VarIndoorTemp  = "indoor_temp_c"
	VarCost        = "cost_eur"
)

// monthHours is the hour count per month of a non-leap year.
var monthHours = [12]int{744, 672, 744, 720, 744, 720, 744, 720, 744, 720, 744, 720}

// ResultModel is the hourly outcome of one solve of one scenario.
type ResultModel struct {
	ScenarioID    ScenarioID
	HeatingKW     []float64 // thermal
	CoolingKW     []float64 // thermal
	ElectricityKW []float64
	IndoorTempC   []float64
	CostEUR       []float64
}

// HourlyVar pairs a variable name with its hourly series.
type HourlyVar struct {
	Name   string
	Values []float64
}

// Variables returns all hourly series in a fixed order.
func (m *ResultModel) Variables() []HourlyVar {
	return []HourlyVar{
		{VarHeating, m.HeatingKW},
		{VarCooling, m.CoolingKW},
		{VarElectricity, m.ElectricityKW},
		{VarIndoorTemp, m.IndoorTempC},
		{VarCost, m.CostEUR},
	}
}

// YearAggregate is one row of a yearly result table.
type YearAggregate struct {
	ScenarioID     ScenarioID
	HeatingKWh     float64
	CoolingKWh     float64
	ElectricityKWh float64
	CostEUR        float64
}

// MonthAggregate is one row of a monthly result table.
type MonthAggregate struct {
	ScenarioID     ScenarioID
	Month          int // 1..12
	HeatingKWh     float64
	CoolingKWh     float64
	ElectricityKWh float64
	CostEUR        float64
}

// Year sums the hourly profile into a yearly aggregate.
func (m *ResultModel) Year() YearAggregate {
	return YearAggregate{
		ScenarioID:     m.ScenarioID,
		HeatingKWh:     sum(m.HeatingKW),
		CoolingKWh:     sum(m.CoolingKW),
		ElectricityKWh: sum(m.ElectricityKW),
		CostEUR:        sum(m.CostEUR),
	}
}

// Months sums the hourly profile into twelve monthly aggregates.
func (m *ResultModel) Months() []MonthAggregate {
	out := make([]MonthAggregate, 0, 12)
	start := 0
	for i, n := range monthHours {
		end := start + n
		out = append(out, MonthAggregate{
			ScenarioID:     m.ScenarioID,
			Month:          i + 1,
			HeatingKWh:     sum(slice(m.HeatingKW, start, end)),
			CoolingKWh:     sum(slice(m.CoolingKW, start, end)),
			ElectricityKWh: sum(slice(m.ElectricityKW, start, end)),
			CostEUR:        sum(slice(m.CostEUR, start, end)),
		})
		start = end
	}
	return out
}

func slice(v []float64, lo, hi int) []float64 {
	if v == nil {
		return nil
	}
	if hi > len(v) {
		hi = len(v)
	}
	if lo >= hi {
		return nil
	}
	return v[lo:hi]
}

func sum(v []float64) float64 {
	var t float64
	for _, x := range v {
		t += x
	}
	return t
}
