package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewSuspensionSimulator models an air suspension corner: ride height, body
// acceleration over the road input, compressor duty and joint play.
func NewSuspensionSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "suspension",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"ride_height_mm":      140,
				"accel_rms_g":         0.2,
				"compressor_duty_pct": 12,
				"lateral_play_mm":     0.3,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "ride_height_mm", Op: sim.CmpLess, Threshold: 110, Code: "C1725"},
			{Sensor: "compressor_duty_pct", Op: sim.CmpGreater, Threshold: 75, Code: "C1726"},
			{Sensor: "accel_rms_g", Op: sim.CmpGreater, Threshold: 0.65, Code: "C1727"},
		},
		tau: map[string]float64{
			"ride_height_mm":      20,
			"accel_rms_g":         8,
			"compressor_duty_pct": 15,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"ride_height_mm":      140,
				"accel_rms_g":         0.1 + 0.003*p.SpeedKPH,
				"compressor_duty_pct": 12,
				"lateral_play_mm":     0.3,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"ride_height_mm":      {Lo: 125, Hi: 155},
				"accel_rms_g":         {Lo: 0.05, Hi: 0.5},
				"compressor_duty_pct": {Lo: 5, Hi: 25},
				"lateral_play_mm":     {Lo: 0, Hi: 1},
			},
			Failures: map[string]sim.Signature{
				"shock_absorber_worn": {FailureID: "shock_absorber_worn", Effects: map[string]sim.SensorEffect{
					"accel_rms_g": {AtZero: 0.9, AtOne: 1.7, Jitter: 0.12, Band: sim.Band{Lo: 0.7, Hi: 1.9}},
				}},
				"air_spring_leak": {FailureID: "air_spring_leak", Effects: map[string]sim.SensorEffect{
					"ride_height_mm":      {AtZero: 85, AtOne: 50, Jitter: 6, Band: sim.Band{Lo: 40, Hi: 95}},
					"compressor_duty_pct": {AtZero: 88, AtOne: 96, Jitter: 2, Band: sim.Band{Lo: 82, Hi: 100}},
				}},
				"compressor_failure": {FailureID: "compressor_failure", Effects: map[string]sim.SensorEffect{
					"ride_height_mm":      {AtZero: 90, AtOne: 55, Jitter: 6, Band: sim.Band{Lo: 45, Hi: 100}},
					"compressor_duty_pct": {AtZero: 1.5, AtOne: 0.3, Jitter: 0.3, Band: sim.Band{Lo: 0, Hi: 2.5}},
				}},
				"ball_joint_wear": {FailureID: "ball_joint_wear", Effects: map[string]sim.SensorEffect{
					"lateral_play_mm": {AtZero: 2.8, AtOne: 5.5, Jitter: 0.4, Band: sim.Band{Lo: 2.2, Hi: 6.2}},
				}},
			},
		},
	}
}
