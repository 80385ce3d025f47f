package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewIgnitionSimulator models spark delivery: secondary voltage, dwell,
// knock-limited advance, and the misfire and engine-speed roughness that
// result when any of them degrade.
func NewIgnitionSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "ignition",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"misfire_rate_pct":     0.3,
				"secondary_voltage_kv": 30,
				"coil_dwell_ms":        4,
				"spark_advance_deg":    20,
				"rpm_variation_pct":    1.2,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "misfire_rate_pct", Op: sim.CmpGreater, Threshold: 10, Code: "P0300"},
			{Sensor: "secondary_voltage_kv", Op: sim.CmpLess, Threshold: 10, Code: "P0351"},
			{Sensor: "spark_advance_deg", Op: sim.CmpLess, Threshold: 8.5, Code: "P0325"},
		},
		tau: map[string]float64{
			"misfire_rate_pct":  8,
			"rpm_variation_pct": 8,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"misfire_rate_pct":     0.2 + 0.5*p.LoadFraction,
				"secondary_voltage_kv": 28 + 8*p.LoadFraction,
				"coil_dwell_ms":        3.5 + 1.2*p.LoadFraction,
				"spark_advance_deg":    10 + 18*(1-p.LoadFraction),
				"rpm_variation_pct":    2 - 1.5*p.LoadFraction,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"misfire_rate_pct":     {Lo: 0, Hi: 1.5},
				"secondary_voltage_kv": {Lo: 26, Hi: 38},
				"coil_dwell_ms":        {Lo: 3, Hi: 5},
				"spark_advance_deg":    {Lo: 9, Hi: 28},
				"rpm_variation_pct":    {Lo: 0.3, Hi: 2.5},
			},
			Failures: map[string]sim.Signature{
				"coil_failure": {FailureID: "coil_failure", Effects: map[string]sim.SensorEffect{
					"secondary_voltage_kv": {AtZero: 8, AtOne: 3, Jitter: 1, Band: sim.Band{Lo: 2, Hi: 10}},
					"misfire_rate_pct":     {AtZero: 25, AtOne: 55, Jitter: 4, Band: sim.Band{Lo: 20, Hi: 60}},
				}},
				"spark_plug_fouled": {FailureID: "spark_plug_fouled", Effects: map[string]sim.SensorEffect{
					"secondary_voltage_kv": {AtZero: 17, AtOne: 12, Jitter: 1, Band: sim.Band{Lo: 11, Hi: 18.5}},
					"misfire_rate_pct":     {AtZero: 6, AtOne: 13, Jitter: 1.5, Band: sim.Band{Lo: 4, Hi: 15}},
				}},
				"ignition_module_intermittent": {FailureID: "ignition_module_intermittent", Effects: map[string]sim.SensorEffect{
					"rpm_variation_pct": {AtZero: 10, AtOne: 20, Jitter: 2, Band: sim.Band{Lo: 7, Hi: 23}},
					"misfire_rate_pct":  {AtZero: 2.5, AtOne: 3.8, Jitter: 0.3, Band: sim.Band{Lo: 2, Hi: 4.5}},
				}},
				"knock_sensor_failed": {FailureID: "knock_sensor_failed", Effects: map[string]sim.SensorEffect{
					"spark_advance_deg": {AtZero: 7, AtOne: 3, Jitter: 1, Band: sim.Band{Lo: 2, Hi: 8}},
				}},
			},
		},
	}
}
