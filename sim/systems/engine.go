package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewEngineSimulator models the engine bottom end: oil pressure and
// temperature, block vibration, relative compression and cam phase error.
func NewEngineSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "engine",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"oil_pressure_kpa":    260,
				"oil_temp_c":          95,
				"vibration_g":         0.3,
				"compression_pct":     95,
				"cam_phase_error_deg": 0.5,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "oil_pressure_kpa", Op: sim.CmpLess, Threshold: 90, Code: "P0524"},
			{Sensor: "cam_phase_error_deg", Op: sim.CmpGreater, Threshold: 3, Code: "P0016"},
			{Sensor: "vibration_g", Op: sim.CmpGreater, Threshold: 2.5, Code: "P1301"},
		},
		tau: map[string]float64{
			"oil_pressure_kpa": 4,
			"oil_temp_c":       90,
			"vibration_g":      6,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"oil_pressure_kpa":    220 + 90*(p.EngineRPM/3200),
				"oil_temp_c":          cfg.AmbientTempC + 75 + 15*p.LoadFraction,
				"vibration_g":         0.15 + 0.5*p.LoadFraction,
				"compression_pct":     95,
				"cam_phase_error_deg": 0.5,
			}
		},
		coldStart: func(st sim.State, cfg sim.SimulationConfig) {
			st.Sensors["oil_temp_c"] = cfg.AmbientTempC
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"oil_pressure_kpa":    {Lo: 200, Hi: 350},
				"oil_temp_c":          {Lo: 60, Hi: 120},
				"vibration_g":         {Lo: 0.05, Hi: 0.8},
				"compression_pct":     {Lo: 88, Hi: 102},
				"cam_phase_error_deg": {Lo: 0, Hi: 1.5},
			},
			Failures: map[string]sim.Signature{
				"oil_pump_failure": {FailureID: "oil_pump_failure", Effects: map[string]sim.SensorEffect{
					"oil_pressure_kpa": {AtZero: 60, AtOne: 10, Jitter: 8, Band: sim.Band{Lo: 0, Hi: 80}},
				}},
				"bearing_wear": {FailureID: "bearing_wear", Effects: map[string]sim.SensorEffect{
					"oil_pressure_kpa": {AtZero: 180, AtOne: 110, Jitter: 10, Band: sim.Band{Lo: 95, Hi: 195}},
					"vibration_g":      {AtZero: 1.5, AtOne: 3.5, Jitter: 0.3, Band: sim.Band{Lo: 1, Hi: 4}},
				}},
				"piston_ring_wear": {FailureID: "piston_ring_wear", Effects: map[string]sim.SensorEffect{
					"compression_pct": {AtZero: 78, AtOne: 60, Jitter: 3, Band: sim.Band{Lo: 55, Hi: 82}},
				}},
				"timing_chain_stretched": {FailureID: "timing_chain_stretched", Effects: map[string]sim.SensorEffect{
					"cam_phase_error_deg": {AtZero: 4.5, AtOne: 8.5, Jitter: 0.5, Band: sim.Band{Lo: 3.5, Hi: 9.5}},
				}},
			},
		},
	}
}
