// Package kb is the failure-mode knowledge base: for every vehicle system,
// the catalog of failure ids with human-readable names and symptoms. It is
// data only — the dataset generator treats it as the authoritative list of
// which failures exist per system, and the generator cross-checks it
// against each simulator's signature table at startup so a catalog entry
// the simulator cannot produce is an error instead of mislabeled data.
package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FailureMode is one catalog entry.
type FailureMode struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Symptoms []string `yaml:"symptoms,omitempty" json:"symptoms,omitempty"`
}

// KnowledgeBase exposes the per-system failure catalog.
type KnowledgeBase interface {
	// FailureModesForSystem returns the failure modes of a system, or nil
	// for an unknown system.
	FailureModesForSystem(systemID string) []FailureMode
}

// Static is an immutable in-memory KnowledgeBase.
type Static struct {
	modes map[string][]FailureMode
}

// NewStatic builds a Static from a system → modes map. The map is copied.
func NewStatic(modes map[string][]FailureMode) *Static {
	copied := make(map[string][]FailureMode, len(modes))
	for sys, list := range modes {
		copied[sys] = append([]FailureMode(nil), list...)
	}
	return &Static{modes: copied}
}

// FailureModesForSystem implements KnowledgeBase.
func (s *Static) FailureModesForSystem(systemID string) []FailureMode {
	return append([]FailureMode(nil), s.modes[systemID]...)
}

// LoadYAML reads a catalog file of the form
//
//	cooling:
//	  - id: thermostat_stuck_closed
//	    name: Thermostat stuck closed
//	    symptoms: [overheating, "no radiator flow"]
func LoadYAML(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var modes map[string][]FailureMode
	if err := yaml.Unmarshal(raw, &modes); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	for sys, list := range modes {
		for i, m := range list {
			if m.ID == "" {
				return nil, fmt.Errorf("knowledge base: system %q entry %d has empty id", sys, i)
			}
		}
	}
	return NewStatic(modes), nil
}

// Default returns the built-in catalog covering all eleven systems. The ids
// match the simulators' signature tables one-to-one.
func Default() *Static {
	return NewStatic(defaultModes)
}

var defaultModes = map[string][]FailureMode{
	"cooling": {
		{ID: "thermostat_stuck_closed", Name: "Thermostat stuck closed", Symptoms: []string{"rapid overheating", "no radiator heat", "zero radiator delta-T"}},
		{ID: "thermostat_stuck_open", Name: "Thermostat stuck open", Symptoms: []string{"engine runs cold", "poor cabin heat", "slow warm-up"}},
		{ID: "water_pump_failure", Name: "Water pump failure", Symptoms: []string{"no coolant flow", "severe overheating", "steam from engine bay"}},
		{ID: "water_pump_degraded", Name: "Water pump degraded (worn impeller)", Symptoms: []string{"reduced coolant flow", "mild overheating under load"}},
		{ID: "radiator_blocked_external", Name: "Radiator externally blocked (debris)", Symptoms: []string{"low radiator delta-T", "overheating in traffic"}},
		{ID: "radiator_blocked_internal", Name: "Radiator internally clogged", Symptoms: []string{"high system pressure", "overheating at speed"}},
		{ID: "coolant_leak", Name: "Coolant leak", Symptoms: []string{"low system pressure", "coolant loss", "gradual overheating"}},
		{ID: "fan_failure", Name: "Cooling fan failure", Symptoms: []string{"overheating at idle", "normal at speed"}},
		{ID: "head_gasket_leak", Name: "Head gasket combustion leak", Symptoms: []string{"over-pressurized cooling system", "bubbles in coolant"}},
		{ID: "ect_sensor_failed_high", Name: "Coolant temperature sensor failed high", Symptoms: []string{"implausibly hot reading", "oil temperature normal", "ECU pulls fuel"}},
		{ID: "ect_sensor_failed_low", Name: "Coolant temperature sensor failed low", Symptoms: []string{"implausibly cold reading", "rich running", "oil temperature normal"}},
	},
	"fuel": {
		{ID: "fuel_pump_failure", Name: "Fuel pump failure", Symptoms: []string{"no fuel pressure", "engine stall"}},
		{ID: "fuel_pump_weak", Name: "Fuel pump weak", Symptoms: []string{"low rail pressure", "lean trim", "hesitation under load"}},
		{ID: "fuel_filter_blocked", Name: "Fuel filter blocked", Symptoms: []string{"pressure drop under demand", "reduced flow"}},
		{ID: "fuel_leak", Name: "Fuel line leak", Symptoms: []string{"pressure loss", "fuel odor", "excess flow"}},
		{ID: "injector_clogged", Name: "Injector clogged", Symptoms: []string{"long injector pulses", "lean trim", "rough running"}},
	},
	"ignition": {
		{ID: "coil_failure", Name: "Ignition coil failure", Symptoms: []string{"dead cylinder", "heavy misfire", "low secondary voltage"}},
		{ID: "spark_plug_fouled", Name: "Spark plug fouled", Symptoms: []string{"intermittent misfire", "reduced secondary voltage"}},
		{ID: "ignition_module_intermittent", Name: "Ignition module intermittent", Symptoms: []string{"erratic engine speed", "random misfires"}},
		{ID: "knock_sensor_failed", Name: "Knock sensor failed", Symptoms: []string{"retarded timing", "reduced power"}},
	},
	"charging": {
		{ID: "alternator_failure", Name: "Alternator failure", Symptoms: []string{"no charging output", "falling battery voltage"}},
		{ID: "voltage_regulator_stuck_high", Name: "Voltage regulator stuck high", Symptoms: []string{"overcharging", "boiling battery"}},
		{ID: "battery_degraded", Name: "Battery degraded", Symptoms: []string{"poor charge retention", "alternator working hard"}},
		{ID: "drive_belt_slipping", Name: "Drive belt slipping", Symptoms: []string{"fluctuating output", "squeal under load"}},
	},
	"transmission": {
		{ID: "clutch_slipping", Name: "Clutch pack slipping", Symptoms: []string{"flare on shifts", "high slip ratio"}},
		{ID: "fluid_low", Name: "Transmission fluid low", Symptoms: []string{"low line pressure", "overheating", "harsh engagement"}},
		{ID: "shift_solenoid_stuck", Name: "Shift solenoid stuck", Symptoms: []string{"delayed shifts", "held gears"}},
		{ID: "cooler_blocked", Name: "Transmission cooler blocked", Symptoms: []string{"fluid overheating", "normal pressure"}},
		{ID: "torque_converter_lockup_failure", Name: "Torque converter lockup failure", Symptoms: []string{"persistent slip at cruise", "raised fluid temperature"}},
	},
	"brakes": {
		{ID: "pads_worn", Name: "Brake pads worn out", Symptoms: []string{"metal-on-metal contact", "hot rotors", "grinding"}},
		{ID: "fluid_leak", Name: "Brake fluid leak", Symptoms: []string{"low line pressure", "pedal sinks to floor"}},
		{ID: "master_cylinder_failing", Name: "Master cylinder failing", Symptoms: []string{"slow pedal sink", "degraded pressure"}},
		{ID: "caliper_sticking", Name: "Caliper sticking", Symptoms: []string{"one corner dragging", "very hot rotor", "pull to one side"}},
	},
	"engine": {
		{ID: "oil_pump_failure", Name: "Oil pump failure", Symptoms: []string{"no oil pressure", "imminent bearing damage"}},
		{ID: "bearing_wear", Name: "Main bearing wear", Symptoms: []string{"low oil pressure", "elevated vibration"}},
		{ID: "piston_ring_wear", Name: "Piston ring wear", Symptoms: []string{"low compression", "high blow-by", "oil consumption"}},
		{ID: "timing_chain_stretched", Name: "Timing chain stretched", Symptoms: []string{"cam phase error", "rattle on start"}},
	},
	"steering": {
		{ID: "power_steering_pump_failure", Name: "Power steering pump failure", Symptoms: []string{"no assist pressure", "very heavy steering"}},
		{ID: "fluid_low", Name: "Power steering fluid low", Symptoms: []string{"reduced assist", "whine on turns"}},
		{ID: "rack_seal_leak", Name: "Steering rack seal leak", Symptoms: []string{"assist pressure loss", "fluid drips"}},
		{ID: "tie_rod_wear", Name: "Tie rod end wear", Symptoms: []string{"free play in steering", "wandering", "normal assist"}},
	},
	"suspension": {
		{ID: "shock_absorber_worn", Name: "Shock absorbers worn", Symptoms: []string{"excessive body motion", "high ride vibration"}},
		{ID: "air_spring_leak", Name: "Air spring leak", Symptoms: []string{"low ride height", "compressor running constantly"}},
		{ID: "compressor_failure", Name: "Air suspension compressor failure", Symptoms: []string{"low ride height", "compressor silent"}},
		{ID: "ball_joint_wear", Name: "Ball joint wear", Symptoms: []string{"lateral free play", "clunks over bumps"}},
	},
	"hvac": {
		{ID: "refrigerant_low", Name: "Refrigerant charge low", Symptoms: []string{"low suction pressure", "weak cooling"}},
		{ID: "ac_compressor_failure", Name: "A/C compressor failure", Symptoms: []string{"compressor draws no current", "no cooling"}},
		{ID: "blend_door_stuck", Name: "Blend door stuck", Symptoms: []string{"hot air regardless of setting", "refrigerant circuit normal"}},
		{ID: "blower_motor_degraded", Name: "Blower motor degraded", Symptoms: []string{"weak airflow", "high motor current"}},
	},
	"emissions": {
		{ID: "catalyst_degraded", Name: "Catalytic converter degraded", Symptoms: []string{"low conversion efficiency", "downstream O2 switching"}},
		{ID: "o2_sensor_lazy", Name: "O2 sensor lazy", Symptoms: []string{"slow sensor response", "drifting trim"}},
		{ID: "egr_stuck_closed", Name: "EGR valve stuck closed", Symptoms: []string{"no EGR flow", "high NOx"}},
		{ID: "egr_stuck_open", Name: "EGR valve stuck open", Symptoms: []string{"excess EGR flow", "rough idle"}},
	},
}
