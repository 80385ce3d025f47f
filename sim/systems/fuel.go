package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewFuelSimulator models the fuel delivery system: rail pressure against a
// vacuum-referenced regulator, delivered flow, injector pulse width and the
// trim the ECU applies to compensate for delivery faults.
func NewFuelSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "fuel",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"fuel_pressure_kpa": 380,
				"fuel_flow_lph":     20,
				"injector_pulse_ms": 8,
				"fuel_trim_pct":     0,
				"fuel_temp_c":       35,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "fuel_pressure_kpa", Op: sim.CmpLess, Threshold: 200, Code: "P0087"},
			{Sensor: "fuel_pressure_kpa", Op: sim.CmpGreater, Threshold: 450, Code: "P0088"},
			{Sensor: "fuel_trim_pct", Op: sim.CmpGreater, Threshold: 15, Code: "P0171"},
			{Sensor: "fuel_trim_pct", Op: sim.CmpLess, Threshold: -15, Code: "P0172"},
		},
		tau: map[string]float64{
			"fuel_pressure_kpa": 4,
			"fuel_flow_lph":     6,
			"fuel_temp_c":       90,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"fuel_pressure_kpa": 380 - 30*p.LoadFraction,
				"fuel_flow_lph":     4 + 40*p.LoadFraction,
				"injector_pulse_ms": 2 + 14*p.LoadFraction,
				"fuel_trim_pct":     0.5 * p.LoadFraction,
				"fuel_temp_c":       cfg.AmbientTempC + 15 + 8*p.LoadFraction,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"fuel_pressure_kpa": {Lo: 330, Hi: 420},
				"fuel_flow_lph":     {Lo: 2, Hi: 50},
				"injector_pulse_ms": {Lo: 1.5, Hi: 18},
				"fuel_trim_pct":     {Lo: -8, Hi: 8},
			},
			Failures: map[string]sim.Signature{
				"fuel_pump_failure": {FailureID: "fuel_pump_failure", Effects: map[string]sim.SensorEffect{
					"fuel_pressure_kpa": {AtZero: 40, AtOne: 5, Jitter: 4, Band: sim.Band{Lo: 0, Hi: 50}},
					"fuel_flow_lph":     {AtZero: 1, AtOne: 0.3, Jitter: 0.2, Band: sim.Band{Lo: 0, Hi: 1.5}},
				}},
				"fuel_pump_weak": {FailureID: "fuel_pump_weak", Effects: map[string]sim.SensorEffect{
					"fuel_pressure_kpa": {AtZero: 240, AtOne: 170, Jitter: 8, Band: sim.Band{Lo: 150, Hi: 250}},
					"fuel_trim_pct":     {AtZero: 12, AtOne: 22, Jitter: 2, Band: sim.Band{Lo: 8, Hi: 25}},
				}},
				"fuel_filter_blocked": {FailureID: "fuel_filter_blocked", Effects: map[string]sim.SensorEffect{
					"fuel_pressure_kpa": {AtZero: 310, AtOne: 270, Jitter: 6, Band: sim.Band{Lo: 260, Hi: 320}},
					"fuel_flow_lph":     {AtZero: 10, AtOne: 4, Jitter: 1, Band: sim.Band{Lo: 2.5, Hi: 12}},
				}},
				"fuel_leak": {FailureID: "fuel_leak", Effects: map[string]sim.SensorEffect{
					"fuel_pressure_kpa": {AtZero: 130, AtOne: 70, Jitter: 8, Band: sim.Band{Lo: 60, Hi: 140}},
					"fuel_flow_lph":     {AtZero: 45, AtOne: 55, Jitter: 2, Band: sim.Band{Lo: 40, Hi: 60}},
				}},
				"injector_clogged": {FailureID: "injector_clogged", Effects: map[string]sim.SensorEffect{
					"injector_pulse_ms": {AtZero: 20, AtOne: 24, Jitter: 1, Band: sim.Band{Lo: 18.5, Hi: 25}},
					"fuel_trim_pct":     {AtZero: 10, AtOne: 20, Jitter: 2, Band: sim.Band{Lo: 7, Hi: 23}},
				}},
			},
		},
	}
}
