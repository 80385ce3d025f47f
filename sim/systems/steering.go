package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewSteeringSimulator models hydraulic power steering: assist pressure,
// the effort left at the wheel when assist drops, and linkage free play.
func NewSteeringSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "steering",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"assist_pressure_kpa": 6000,
				"steering_effort_nm":  4,
				"free_play_deg":       0.2,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "assist_pressure_kpa", Op: sim.CmpLess, Threshold: 1000, Code: "C0545"},
			{Sensor: "free_play_deg", Op: sim.CmpGreater, Threshold: 1.5, Code: "C0547"},
		},
		tau: map[string]float64{
			"assist_pressure_kpa": 4,
			"steering_effort_nm":  3,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"assist_pressure_kpa": 5500 + 1800*p.LoadFraction,
				"steering_effort_nm":  3 + 3*p.LoadFraction,
				"free_play_deg":       0.2,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"assist_pressure_kpa": {Lo: 5200, Hi: 7500},
				"steering_effort_nm":  {Lo: 2, Hi: 7},
				"free_play_deg":       {Lo: 0, Hi: 0.8},
			},
			Failures: map[string]sim.Signature{
				"power_steering_pump_failure": {FailureID: "power_steering_pump_failure", Effects: map[string]sim.SensorEffect{
					"assist_pressure_kpa": {AtZero: 400, AtOne: 50, Jitter: 50, Band: sim.Band{Lo: 0, Hi: 500}},
					"steering_effort_nm":  {AtZero: 28, AtOne: 40, Jitter: 3, Band: sim.Band{Lo: 24, Hi: 44}},
				}},
				"fluid_low": {FailureID: "fluid_low", Effects: map[string]sim.SensorEffect{
					"assist_pressure_kpa": {AtZero: 3200, AtOne: 1900, Jitter: 150, Band: sim.Band{Lo: 1700, Hi: 3400}},
					"steering_effort_nm":  {AtZero: 11, AtOne: 17, Jitter: 1.5, Band: sim.Band{Lo: 9, Hi: 19}},
				}},
				"rack_seal_leak": {FailureID: "rack_seal_leak", Effects: map[string]sim.SensorEffect{
					"assist_pressure_kpa": {AtZero: 1300, AtOne: 700, Jitter: 100, Band: sim.Band{Lo: 560, Hi: 1450}},
					"steering_effort_nm":  {AtZero: 20, AtOne: 23, Jitter: 1, Band: sim.Band{Lo: 18, Hi: 24}},
				}},
				"tie_rod_wear": {FailureID: "tie_rod_wear", Effects: map[string]sim.SensorEffect{
					"free_play_deg": {AtZero: 2.5, AtOne: 6, Jitter: 0.5, Band: sim.Band{Lo: 1.8, Hi: 7}},
				}},
			},
		},
	}
}
