package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewTransmissionSimulator models an automatic transmission: fluid
// temperature, line pressure, clutch slip and shift duration.
func NewTransmissionSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "transmission",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"fluid_temp_c":      85,
				"line_pressure_kpa": 600,
				"slip_pct":          0.8,
				"shift_time_ms":     250,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "fluid_temp_c", Op: sim.CmpGreater, Threshold: 126, Code: "P0218"},
			{Sensor: "line_pressure_kpa", Op: sim.CmpLess, Threshold: 450, Code: "P0868"},
			{Sensor: "slip_pct", Op: sim.CmpGreater, Threshold: 2.8, Code: "P0741", WarmupSeconds: 30},
		},
		tau: map[string]float64{
			"fluid_temp_c":      120,
			"line_pressure_kpa": 5,
			"slip_pct":          10,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"fluid_temp_c":      cfg.AmbientTempC + 55 + 25*p.LoadFraction,
				"line_pressure_kpa": 520 + 280*p.LoadFraction,
				"slip_pct":          0.5 + 1.2*p.LoadFraction,
				"shift_time_ms":     180 + 150*p.LoadFraction,
			}
		},
		coldStart: func(st sim.State, cfg sim.SimulationConfig) {
			st.Sensors["fluid_temp_c"] = cfg.AmbientTempC
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"fluid_temp_c":      {Lo: 60, Hi: 105},
				"line_pressure_kpa": {Lo: 500, Hi: 850},
				"slip_pct":          {Lo: 0, Hi: 2},
				"shift_time_ms":     {Lo: 150, Hi: 400},
			},
			Failures: map[string]sim.Signature{
				"clutch_slipping": {FailureID: "clutch_slipping", Effects: map[string]sim.SensorEffect{
					"slip_pct":     {AtZero: 9, AtOne: 22, Jitter: 1.5, Band: sim.Band{Lo: 7, Hi: 25}},
					"fluid_temp_c": {AtZero: 100, AtOne: 118, Jitter: 3, Band: sim.Band{Lo: 95, Hi: 125}},
				}},
				"fluid_low": {FailureID: "fluid_low", Effects: map[string]sim.SensorEffect{
					"line_pressure_kpa": {AtZero: 380, AtOne: 230, Jitter: 20, Band: sim.Band{Lo: 200, Hi: 420}},
					"fluid_temp_c":      {AtZero: 108, AtOne: 125, Jitter: 3, Band: sim.Band{Lo: 100, Hi: 130}},
				}},
				"shift_solenoid_stuck": {FailureID: "shift_solenoid_stuck", Effects: map[string]sim.SensorEffect{
					"shift_time_ms": {AtZero: 850, AtOne: 1400, Jitter: 60, Band: sim.Band{Lo: 780, Hi: 1500}},
				}},
				"cooler_blocked": {FailureID: "cooler_blocked", Effects: map[string]sim.SensorEffect{
					"fluid_temp_c": {AtZero: 132, AtOne: 152, Jitter: 3, Band: sim.Band{Lo: 128, Hi: 158}},
				}},
				"torque_converter_lockup_failure": {FailureID: "torque_converter_lockup_failure", Effects: map[string]sim.SensorEffect{
					"slip_pct":     {AtZero: 3.2, AtOne: 5.8, Jitter: 0.4, Band: sim.Band{Lo: 2.5, Hi: 6.5}},
					"fluid_temp_c": {AtZero: 96, AtOne: 106, Jitter: 2, Band: sim.Band{Lo: 92, Hi: 110}},
				}},
			},
		},
	}
}
