package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewBrakesSimulator models the hydraulic brake circuit under a standard
// apply: line pressure, pad material remaining, rotor temperature and pedal
// travel.
func NewBrakesSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "brakes",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"line_pressure_kpa": 7000,
				"pad_thickness_mm":  9.5,
				"rotor_temp_c":      120,
				"pedal_travel_pct":  28,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "line_pressure_kpa", Op: sim.CmpLess, Threshold: 4000, Code: "C0049"},
			{Sensor: "rotor_temp_c", Op: sim.CmpGreater, Threshold: 380, Code: "C0050"},
			{Sensor: "pad_thickness_mm", Op: sim.CmpLess, Threshold: 3, Code: "C0051"},
		},
		tau: map[string]float64{
			"line_pressure_kpa": 3,
			"rotor_temp_c":      80,
			"pedal_travel_pct":  5,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"line_pressure_kpa": 6800 + 400*p.LoadFraction,
				"pad_thickness_mm":  9.5,
				"rotor_temp_c":      cfg.AmbientTempC + 60 + 120*p.LoadFraction,
				"pedal_travel_pct":  25 + 10*p.LoadFraction,
			}
		},
		coldStart: func(st sim.State, cfg sim.SimulationConfig) {
			st.Sensors["rotor_temp_c"] = cfg.AmbientTempC
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"line_pressure_kpa": {Lo: 6500, Hi: 7600},
				"pad_thickness_mm":  {Lo: 7, Hi: 12},
				"rotor_temp_c":      {Lo: 60, Hi: 220},
				"pedal_travel_pct":  {Lo: 20, Hi: 40},
			},
			Failures: map[string]sim.Signature{
				"pads_worn": {FailureID: "pads_worn", Effects: map[string]sim.SensorEffect{
					"pad_thickness_mm": {AtZero: 2.2, AtOne: 0.8, Jitter: 0.3, Band: sim.Band{Lo: 0.4, Hi: 2.6}},
					"rotor_temp_c":     {AtZero: 255, AtOne: 325, Jitter: 12, Band: sim.Band{Lo: 230, Hi: 360}},
				}},
				"fluid_leak": {FailureID: "fluid_leak", Effects: map[string]sim.SensorEffect{
					"line_pressure_kpa": {AtZero: 2800, AtOne: 1400, Jitter: 200, Band: sim.Band{Lo: 1100, Hi: 3100}},
					"pedal_travel_pct":  {AtZero: 75, AtOne: 92, Jitter: 3, Band: sim.Band{Lo: 70, Hi: 96}},
				}},
				"master_cylinder_failing": {FailureID: "master_cylinder_failing", Effects: map[string]sim.SensorEffect{
					"line_pressure_kpa": {AtZero: 5200, AtOne: 4100, Jitter: 200, Band: sim.Band{Lo: 3800, Hi: 5500}},
					"pedal_travel_pct":  {AtZero: 48, AtOne: 62, Jitter: 3, Band: sim.Band{Lo: 44, Hi: 66}},
				}},
				"caliper_sticking": {FailureID: "caliper_sticking", Effects: map[string]sim.SensorEffect{
					"rotor_temp_c": {AtZero: 420, AtOne: 560, Jitter: 20, Band: sim.Band{Lo: 390, Hi: 600}},
				}},
			},
		},
	}
}
