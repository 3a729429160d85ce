package model

// HoursPerYear is the length of every hourly profile handled by the model.
const HoursPerYear = 8760

// ScenarioID identifies one building-operation scenario.
type ScenarioID int64

// Building holds the thermal and electrical parameters of one dwelling.
type Building struct {
	ThermalResistance float64 `json:"thermal_resistance"` // K/kW
	ThermalCapacity   float64 `json:"thermal_capacity"`   // kWh/K
	HeatedArea        float64 `json:"heated_area"`        // m2
	HeatPumpCOP       float64 `json:"heat_pump_cop"`
	MaxHeatingPower   float64 `json:"max_heating_power"` // kW thermal
	MaxCoolingPower   float64 `json:"max_cooling_power"` // kW thermal
	HeatingSetpoint   float64 `json:"heating_setpoint"`  // degC
	CoolingSetpoint   float64 `json:"cooling_setpoint"`  // degC
	ComfortBand       float64 `json:"comfort_band"`      // K of allowed drift
	BaseLoad          float64 `json:"base_load"`         // kW non-HVAC
}

// Scenario is one fully resolved simulation input: a building plus the
// hourly boundary conditions it is exposed to.
type Scenario struct {
	ID          ScenarioID
	Building    Building
	OutdoorTemp []float64 // degC, HoursPerYear entries
	Price       []float64 // EUR/kWh, HoursPerYear entries
}

// Flags selects which model variants run and which aggregations are persisted.
type Flags struct {
	RunRef    bool
	RunOpt    bool
	SaveYear  bool
	SaveMonth bool
	SaveHour  bool
	// HourVars restricts which hourly variables are written. Empty means all.
	HourVars []string
}

// Default returns the flag set used when nothing is configured explicitly:
// both model variants, yearly results only.
func Default() Flags {
	return Flags{RunRef: true, RunOpt: true, SaveYear: true}
}
