package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewChargingSimulator models the charging circuit: regulated system
// voltage, alternator output current, battery state of charge and output
// ripple (the belt-slip tell).
func NewChargingSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "charging",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"battery_voltage_v":    14.3,
				"alternator_output_a":  30,
				"battery_soc_pct":      92,
				"output_ripple_v":      0.1,
				"alternator_temp_c":    70,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "battery_voltage_v", Op: sim.CmpLess, Threshold: 12.8, Code: "P0562"},
			{Sensor: "battery_voltage_v", Op: sim.CmpGreater, Threshold: 15.0, Code: "P0563"},
			{Sensor: "alternator_output_a", Op: sim.CmpLess, Threshold: 8, Code: "P0620"},
		},
		tau: map[string]float64{
			"battery_voltage_v":   10,
			"alternator_output_a": 5,
			"battery_soc_pct":     200,
			"alternator_temp_c":   120,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"battery_voltage_v":   14.2 + 0.2*(p.EngineRPM/3200),
				"alternator_output_a": 20 + 45*p.LoadFraction,
				"battery_soc_pct":     92,
				"output_ripple_v":     0.08 + 0.1*p.LoadFraction,
				"alternator_temp_c":   cfg.AmbientTempC + 40 + 30*p.LoadFraction,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"battery_voltage_v":   {Lo: 13.8, Hi: 14.8},
				"alternator_output_a": {Lo: 15, Hi: 70},
				"battery_soc_pct":     {Lo: 85, Hi: 100},
				"output_ripple_v":     {Lo: 0, Hi: 0.3},
			},
			Failures: map[string]sim.Signature{
				"alternator_failure": {FailureID: "alternator_failure", Effects: map[string]sim.SensorEffect{
					"alternator_output_a": {AtZero: 3, AtOne: 0.5, Jitter: 0.5, Band: sim.Band{Lo: 0, Hi: 5}},
					"battery_voltage_v":   {AtZero: 12.3, AtOne: 11.6, Jitter: 0.15, Band: sim.Band{Lo: 11.2, Hi: 12.6}},
				}},
				"voltage_regulator_stuck_high": {FailureID: "voltage_regulator_stuck_high", Effects: map[string]sim.SensorEffect{
					"battery_voltage_v": {AtZero: 15.4, AtOne: 16.2, Jitter: 0.2, Band: sim.Band{Lo: 15.1, Hi: 16.6}},
				}},
				"battery_degraded": {FailureID: "battery_degraded", Effects: map[string]sim.SensorEffect{
					"battery_soc_pct":     {AtZero: 55, AtOne: 35, Jitter: 4, Band: sim.Band{Lo: 28, Hi: 62}},
					"alternator_output_a": {AtZero: 80, AtOne: 95, Jitter: 3, Band: sim.Band{Lo: 72, Hi: 100}},
				}},
				"drive_belt_slipping": {FailureID: "drive_belt_slipping", Effects: map[string]sim.SensorEffect{
					"output_ripple_v": {AtZero: 0.8, AtOne: 1.6, Jitter: 0.15, Band: sim.Band{Lo: 0.5, Hi: 2}},
				}},
			},
		},
	}
}
