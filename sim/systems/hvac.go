package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewHVACSimulator models the A/C loop in cooling mode: vent outlet
// temperature, refrigerant pressure, compressor clutch current and blower
// airflow.
func NewHVACSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "hvac",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"vent_temp_c":              6,
				"refrigerant_pressure_kpa": 280,
				"compressor_current_a":     16,
				"blower_airflow_cfm":       320,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "refrigerant_pressure_kpa", Op: sim.CmpLess, Threshold: 200, Code: "P0534"},
			{Sensor: "vent_temp_c", Op: sim.CmpGreater, Threshold: 20, Code: "B1342", WarmupSeconds: 120},
		},
		tau: map[string]float64{
			"vent_temp_c":              40,
			"refrigerant_pressure_kpa": 10,
			"compressor_current_a":     5,
			"blower_airflow_cfm":       8,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"vent_temp_c":              6 + 0.08*(cfg.AmbientTempC-20),
				"refrigerant_pressure_kpa": 280 + 2*(cfg.AmbientTempC-20),
				"compressor_current_a":     16 + 4*p.LoadFraction,
				"blower_airflow_cfm":       320,
			}
		},
		coldStart: func(st sim.State, cfg sim.SimulationConfig) {
			st.Sensors["vent_temp_c"] = cfg.AmbientTempC
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"vent_temp_c":              {Lo: 3, Hi: 10},
				"refrigerant_pressure_kpa": {Lo: 220, Hi: 340},
				"compressor_current_a":     {Lo: 12, Hi: 22},
				"blower_airflow_cfm":       {Lo: 280, Hi: 360},
			},
			Failures: map[string]sim.Signature{
				"refrigerant_low": {FailureID: "refrigerant_low", Effects: map[string]sim.SensorEffect{
					"refrigerant_pressure_kpa": {AtZero: 170, AtOne: 80, Jitter: 15, Band: sim.Band{Lo: 60, Hi: 190}},
					"vent_temp_c":              {AtZero: 14, AtOne: 21, Jitter: 1.5, Band: sim.Band{Lo: 12, Hi: 23}},
				}},
				"ac_compressor_failure": {FailureID: "ac_compressor_failure", Effects: map[string]sim.SensorEffect{
					"compressor_current_a": {AtZero: 1.5, AtOne: 0.3, Jitter: 0.3, Band: sim.Band{Lo: 0, Hi: 2.2}},
					"vent_temp_c":          {AtZero: 26, AtOne: 32, Jitter: 1.5, Band: sim.Band{Lo: 24, Hi: 34}},
				}},
				"blend_door_stuck": {FailureID: "blend_door_stuck", Effects: map[string]sim.SensorEffect{
					"vent_temp_c": {AtZero: 38, AtOne: 48, Jitter: 2, Band: sim.Band{Lo: 35, Hi: 51}},
				}},
				"blower_motor_degraded": {FailureID: "blower_motor_degraded", Effects: map[string]sim.SensorEffect{
					"blower_airflow_cfm": {AtZero: 180, AtOne: 110, Jitter: 12, Band: sim.Band{Lo: 95, Hi: 195}},
				}},
			},
		},
	}
}
