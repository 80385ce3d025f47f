package systems

import "github.com/vehicle-sim/vehicle-sim/sim"

// NewEmissionsSimulator models the aftertreatment path: catalyst conversion
// efficiency, upstream O2 sensor response time, tailpipe NOx and EGR flow.
func NewEmissionsSimulator() sim.SystemSimulator {
	return &tableSimulator{
		id: "emissions",
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				"catalyst_efficiency_pct": 92,
				"o2_response_ms":          95,
				"nox_ppm":                 180,
				"egr_flow_pct":            10,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: "catalyst_efficiency_pct", Op: sim.CmpLess, Threshold: 75, Code: "P0420"},
			{Sensor: "egr_flow_pct", Op: sim.CmpLess, Threshold: 2.5, Code: "P0401", WarmupSeconds: 60},
			{Sensor: "egr_flow_pct", Op: sim.CmpGreater, Threshold: 22, Code: "P0402"},
			{Sensor: "o2_response_ms", Op: sim.CmpGreater, Threshold: 300, Code: "P0133"},
		},
		tau: map[string]float64{
			"nox_ppm":      15,
			"egr_flow_pct": 10,
		},
		targets: func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64 {
			return map[string]float64{
				"catalyst_efficiency_pct": 92,
				"o2_response_ms":          95,
				"nox_ppm":                 120 + 160*p.LoadFraction,
				"egr_flow_pct":            4 + 14*p.LoadFraction,
			}
		},
		sigs: &sim.SignatureSet{
			Normal: map[string]sim.Band{
				"catalyst_efficiency_pct": {Lo: 85, Hi: 100},
				"o2_response_ms":          {Lo: 50, Hi: 150},
				"nox_ppm":                 {Lo: 80, Hi: 350},
				"egr_flow_pct":            {Lo: 3, Hi: 20},
			},
			Failures: map[string]sim.Signature{
				"catalyst_degraded": {FailureID: "catalyst_degraded", Effects: map[string]sim.SensorEffect{
					"catalyst_efficiency_pct": {AtZero: 62, AtOne: 38, Jitter: 4, Band: sim.Band{Lo: 32, Hi: 68}},
				}},
				"o2_sensor_lazy": {FailureID: "o2_sensor_lazy", Effects: map[string]sim.SensorEffect{
					"o2_response_ms": {AtZero: 450, AtOne: 800, Jitter: 50, Band: sim.Band{Lo: 380, Hi: 880}},
				}},
				"egr_stuck_closed": {FailureID: "egr_stuck_closed", Effects: map[string]sim.SensorEffect{
					"egr_flow_pct": {AtZero: 1.2, AtOne: 0.2, Jitter: 0.2, Band: sim.Band{Lo: 0, Hi: 1.6}},
					"nox_ppm":      {AtZero: 650, AtOne: 1200, Jitter: 80, Band: sim.Band{Lo: 550, Hi: 1300}},
				}},
				"egr_stuck_open": {FailureID: "egr_stuck_open", Effects: map[string]sim.SensorEffect{
					"egr_flow_pct": {AtZero: 26, AtOne: 38, Jitter: 2, Band: sim.Band{Lo: 23, Hi: 41}},
					"nox_ppm":      {AtZero: 70, AtOne: 40, Jitter: 8, Band: sim.Band{Lo: 30, Hi: 85}},
				}},
			},
		},
	}
}
