package systems

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

// Cooling system physics constants. The model is a two-node lumped heat
// balance (engine block, coolant) with a thermostat-regulated radiator path.
const (
	// thermostatOpensC / thermostatFullOpenC bound the linear opening ramp.
	thermostatOpensC    = 88.0
	thermostatFullOpenC = 96.0

	// fanOnC / fanOffC form the fan hysteresis window.
	fanOnC  = 97.0
	fanOffC = 93.0

	// fanAirflowBoost is the airflow factor the fan adds when running.
	fanAirflowBoost = 0.8

	// kRadiator scales radiator heat rejection (kW per °C of
	// coolant-ambient delta at unit airflow and a fully open thermostat).
	kRadiator = 0.4

	// kPassive is the always-on convective loss coefficient.
	kPassive = 0.02

	// kTransfer scales engine-to-coolant heat transfer at nominal flow.
	kTransfer = 0.6

	// nominalFlowLPM normalizes the transfer term.
	nominalFlowLPM = 60.0

	// engineThermalMass / coolantThermalMass are lumped masses (kJ/°C).
	engineThermalMass  = 30.0
	coolantThermalMass = 25.0

	// kDeltaT converts rejected heat and flow into the radiator in/out
	// temperature split reported by the delta sensor.
	kDeltaT = 0.045

	// failureApproachTau is the time constant for coolant temperature
	// converging on a failure signature's target.
	failureApproachTau = 50.0

	// engineTempCeiling caps the block temperature when heat transfer
	// collapses (stagnant coolant).
	engineTempCeiling = 200.0

	// trimTargetC and trimGain derive short-term fuel trim from the
	// *reported* coolant temperature, the way an ECU would compensate. A
	// failed sensor drags trim with it while the real thermal state stays
	// normal, which is the cross-sensor tell separating sensor failures
	// from genuine thermal ones.
	trimTargetC = 90.0
	trimGain    = -0.4
	trimLimit   = 25.0

	// warmupWindowSeconds gates the under-temperature DTC: P0128 may not
	// fire before this much run time has elapsed, so a legitimate cold
	// start cannot trip it.
	warmupWindowSeconds = 300.0
)

// Sensor and internal variable names for the cooling system.
const (
	sensorCoolantTemp   = "coolant_temp"
	sensorOilTemp       = "oil_temp"
	sensorFanState      = "fan_state"
	sensorThermostatPos = "thermostat_position"
	sensorRadiatorDelta = "radiator_delta_t"
	sensorFlowRate      = "flow_rate"
	sensorSystemPress   = "system_pressure"
	sensorAmbientTemp   = "ambient_temp"
	sensorFuelTrim      = "fuel_trim_pct"

	internalEngineTemp    = "engine_temp"
	internalActualCoolant = "actual_coolant_temp"
)

// Cooling failure mode ids.
const (
	FailThermostatStuckClosed = "thermostat_stuck_closed"
	FailThermostatStuckOpen   = "thermostat_stuck_open"
	FailWaterPumpFailure      = "water_pump_failure"
	FailWaterPumpDegraded     = "water_pump_degraded"
	FailRadiatorBlockedExt    = "radiator_blocked_external"
	FailRadiatorBlockedInt    = "radiator_blocked_internal"
	FailCoolantLeak           = "coolant_leak"
	FailFanFailure            = "fan_failure"
	FailHeadGasketLeak        = "head_gasket_leak"
	FailECTSensorHigh         = "ect_sensor_failed_high"
	FailECTSensorLow          = "ect_sensor_failed_low"
)

// CoolingSimulator is the reference implementation of the SystemSimulator
// contract: real (if lumped) physics for normal operation, with failure
// modes realized either through physics modifiers (stuck thermostat, dead
// pump) or through sensor-level overrides (failed ECT sensor). It holds no
// run state; everything mutable lives in the State.
type CoolingSimulator struct {
	schema sim.StateSchema
	rules  []sim.DTCRule
	sigs   *sim.SignatureSet
}

// NewCoolingSimulator builds the cooling simulator with its full schema,
// DTC rule set and signature table.
func NewCoolingSimulator() *CoolingSimulator {
	return &CoolingSimulator{
		schema: sim.StateSchema{
			Sensors: map[string]float64{
				sensorCoolantTemp:   90,
				sensorOilTemp:       95,
				sensorFanState:      0,
				sensorThermostatPos: 0.25,
				sensorRadiatorDelta: 8,
				sensorFlowRate:      50,
				sensorSystemPress:   100,
				sensorAmbientTemp:   20,
				sensorFuelTrim:      0,
			},
			Internal: map[string]float64{
				internalEngineTemp:    115,
				internalActualCoolant: 90,
			},
		},
		rules: []sim.DTCRule{
			{Sensor: sensorCoolantTemp, Op: sim.CmpGreater, Threshold: 115, Code: "P0217"},
			{Sensor: sensorCoolantTemp, Op: sim.CmpLess, Threshold: 70, Code: "P0128", WarmupSeconds: warmupWindowSeconds},
			{Sensor: sensorCoolantTemp, Op: sim.CmpGreater, Threshold: 135, Code: "P0118"},
			{Sensor: sensorCoolantTemp, Op: sim.CmpLess, Threshold: -25, Code: "P0117"},
		},
		sigs: coolingSignatures(),
	}
}

// coolingSignatures declares the documented acceptance band per key sensor
// for every failure mode. Every pair of failures is separable on at least
// one sensor; the engine re-verifies that structurally at registration.
func coolingSignatures() *sim.SignatureSet {
	return &sim.SignatureSet{
		Normal: map[string]sim.Band{
			sensorCoolantTemp:   {Lo: 85, Hi: 100},
			sensorOilTemp:       {Lo: 88, Hi: 112},
			sensorThermostatPos: {Lo: 0.02, Hi: 0.98},
			sensorFlowRate:      {Lo: 20, Hi: 85},
			sensorRadiatorDelta: {Lo: 4, Hi: 15},
			sensorSystemPress:   {Lo: 90, Hi: 130},
			sensorFuelTrim:      {Lo: -6, Hi: 6},
		},
		Failures: map[string]sim.Signature{
			FailThermostatStuckClosed: {FailureID: FailThermostatStuckClosed, Effects: map[string]sim.SensorEffect{
				sensorThermostatPos: {AtZero: 0, AtOne: 0, Band: sim.Band{Lo: 0, Hi: 0}},
				sensorRadiatorDelta: {AtZero: 0, AtOne: 0, Band: sim.Band{Lo: 0, Hi: 0}},
				sensorCoolantTemp:   {AtZero: 114, AtOne: 126, Jitter: 1.5, Band: sim.Band{Lo: 112, Hi: 128}},
				sensorOilTemp:       {AtZero: 118, AtOne: 130, Jitter: 2, Band: sim.Band{Lo: 114, Hi: 136}},
			}},
			// Stuck-open carries no coolant effect: with the radiator path
			// always open the physics itself produces the under-temperature
			// signature, and its level genuinely depends on ambient.
			FailThermostatStuckOpen: {FailureID: FailThermostatStuckOpen, Effects: map[string]sim.SensorEffect{
				sensorThermostatPos: {AtZero: 1, AtOne: 1, Band: sim.Band{Lo: 1, Hi: 1}},
			}},
			FailWaterPumpFailure: {FailureID: FailWaterPumpFailure, Effects: map[string]sim.SensorEffect{
				sensorFlowRate:      {AtZero: 0, AtOne: 0, Band: sim.Band{Lo: 0, Hi: 0}},
				sensorRadiatorDelta: {AtZero: 0, AtOne: 0, Band: sim.Band{Lo: 0, Hi: 2}},
				sensorCoolantTemp:   {AtZero: 117, AtOne: 128, Jitter: 1.5, Band: sim.Band{Lo: 113, Hi: 130}},
			}},
			FailWaterPumpDegraded: {FailureID: FailWaterPumpDegraded, Effects: map[string]sim.SensorEffect{
				sensorFlowRate:    {AtZero: 16, AtOne: 4, Jitter: 1, Band: sim.Band{Lo: 2, Hi: 18}},
				sensorCoolantTemp: {AtZero: 104.5, AtOne: 110, Jitter: 1, Band: sim.Band{Lo: 103, Hi: 111.5}},
			}},
			FailRadiatorBlockedExt: {FailureID: FailRadiatorBlockedExt, Effects: map[string]sim.SensorEffect{
				sensorRadiatorDelta: {AtZero: 2.6, AtOne: 1.3, Jitter: 0.25, Band: sim.Band{Lo: 1, Hi: 3}},
				sensorCoolantTemp:   {AtZero: 105, AtOne: 110.5, Jitter: 1, Band: sim.Band{Lo: 104, Hi: 111.5}},
			}},
			FailRadiatorBlockedInt: {FailureID: FailRadiatorBlockedInt, Effects: map[string]sim.SensorEffect{
				sensorSystemPress:   {AtZero: 146, AtOne: 166, Jitter: 3, Band: sim.Band{Lo: 140, Hi: 170}},
				sensorRadiatorDelta: {AtZero: 2.5, AtOne: 0.8, Jitter: 0.25, Band: sim.Band{Lo: 0.5, Hi: 3}},
				sensorCoolantTemp:   {AtZero: 104.5, AtOne: 111, Jitter: 1, Band: sim.Band{Lo: 103, Hi: 112}},
			}},
			FailCoolantLeak: {FailureID: FailCoolantLeak, Effects: map[string]sim.SensorEffect{
				sensorSystemPress: {AtZero: 52, AtOne: 26, Jitter: 4, Band: sim.Band{Lo: 20, Hi: 60}},
				sensorCoolantTemp: {AtZero: 107, AtOne: 118, Jitter: 1, Band: sim.Band{Lo: 105, Hi: 120}},
			}},
			FailFanFailure: {FailureID: FailFanFailure, Effects: map[string]sim.SensorEffect{
				sensorFanState:    {AtZero: 0, AtOne: 0, Band: sim.Band{Lo: 0, Hi: 0}},
				sensorCoolantTemp: {AtZero: 102.5, AtOne: 107, Jitter: 1, Band: sim.Band{Lo: 101, Hi: 108}},
			}},
			FailHeadGasketLeak: {FailureID: FailHeadGasketLeak, Effects: map[string]sim.SensorEffect{
				sensorSystemPress: {AtZero: 190, AtOne: 235, Jitter: 4, Band: sim.Band{Lo: 185, Hi: 240}},
				sensorCoolantTemp: {AtZero: 108.5, AtOne: 117, Jitter: 1, Band: sim.Band{Lo: 106, Hi: 119}},
			}},
			FailECTSensorHigh: {FailureID: FailECTSensorHigh, Effects: map[string]sim.SensorEffect{
				sensorCoolantTemp: {AtZero: 122, AtOne: 138, Jitter: 2, Band: sim.Band{Lo: 120, Hi: 140}},
				sensorFuelTrim:    {AtZero: -13, AtOne: -19, Jitter: 1.5, Band: sim.Band{Lo: -21, Hi: -11}},
			}},
			FailECTSensorLow: {FailureID: FailECTSensorLow, Effects: map[string]sim.SensorEffect{
				sensorCoolantTemp: {AtZero: -24, AtOne: -36, Jitter: 2, Band: sim.Band{Lo: -40, Hi: -20}},
				sensorFuelTrim:    {AtZero: 25, AtOne: 25, Band: sim.Band{Lo: 20, Hi: 26}},
			}},
		},
	}
}

// sensorOnlyFailures are realized purely at the reporting layer: the
// physical thermal state stays normal, only the reported coolant value (and
// the ECU's trim response to it) moves.
var sensorOnlyFailures = map[string]bool{
	FailECTSensorHigh: true,
	FailECTSensorLow:  true,
}

func (c *CoolingSimulator) SystemID() string              { return "cooling" }
func (c *CoolingSimulator) Schema() sim.StateSchema       { return c.schema }
func (c *CoolingSimulator) DTCRules() []sim.DTCRule       { return c.rules }
func (c *CoolingSimulator) Signatures() *sim.SignatureSet { return c.sigs }

// InitState starts from the warm-running defaults, pulls everything down to
// ambient for cold starts, and applies the config's sparse overrides last.
func (c *CoolingSimulator) InitState(cfg sim.SimulationConfig) (sim.State, error) {
	st := sim.NewState(c.schema)
	st.Sensors[sensorAmbientTemp] = cfg.AmbientTempC

	if cfg.Condition == sim.CondColdStart {
		st.Sensors[sensorCoolantTemp] = cfg.AmbientTempC
		st.Sensors[sensorOilTemp] = cfg.AmbientTempC
		st.Sensors[sensorThermostatPos] = 0
		st.Sensors[sensorRadiatorDelta] = 0
		st.Internal[internalEngineTemp] = cfg.AmbientTempC
		st.Internal[internalActualCoolant] = cfg.AmbientTempC
	}

	if err := st.ApplyOverrides(cfg.InitialState); err != nil {
		return sim.State{}, err
	}
	return st, nil
}

// ApplyFailure snaps the reported coolant value immediately for failed
// sensors, so an out-of-range reading appears at onset rather than ramping
// in through the physics.
func (c *CoolingSimulator) ApplyFailure(st sim.State, cfg sim.SimulationConfig, t float64) sim.State {
	if !sensorOnlyFailures[cfg.FailureID] {
		return st
	}
	sig, ok := c.sigs.Lookup(cfg.FailureID)
	if !ok {
		return st
	}
	next := st.Clone()
	next.Sensors[sensorCoolantTemp] = sig.Effects[sensorCoolantTemp].Target(cfg.FailureSeverity)
	return next
}

// Step advances the heat balance by dt. Failure modes modify the physics
// (overridden thermostat/fan/flow, capped equilibria) or the reporting
// layer, per the signature table.
func (c *CoolingSimulator) Step(st sim.State, dt, t float64, cfg sim.SimulationConfig, jitter *rand.Rand) (sim.State, error) {
	p, ok := cfg.Condition.Params()
	if !ok {
		return sim.State{}, fmt.Errorf("unknown operating condition %q", cfg.Condition)
	}

	next := st.Clone()
	ambient := cfg.AmbientTempC

	var sig sim.Signature
	failureActive := cfg.FailureActive(t)
	if failureActive {
		s, ok := c.sigs.Lookup(cfg.FailureID)
		if !ok {
			return sim.State{}, fmt.Errorf("cooling has no failure mode %q", cfg.FailureID)
		}
		sig = s
	}
	sensorOnly := failureActive && sensorOnlyFailures[cfg.FailureID]
	physicsFailure := failureActive && !sensorOnly

	engineTemp := next.Internal[internalEngineTemp]
	coolant := next.Internal[internalActualCoolant]

	// Heat generated by combustion (kW), set by the operating condition.
	heatGen := (6 + 34*p.LoadFraction) * p.HeatFactor

	// Thermostat: linear ramp between opening and fully-open temperature,
	// unless a stuck failure pins it.
	thermostatPos := clamp((coolant-thermostatOpensC)/(thermostatFullOpenC-thermostatOpensC), 0, 1)
	if physicsFailure {
		if eff, ok := sig.Effects[sensorThermostatPos]; ok {
			thermostatPos = eff.Target(cfg.FailureSeverity)
		}
	}

	// Fan: hysteresis between activation and deactivation temperatures,
	// unless a failure pins it off.
	fan := next.Sensors[sensorFanState]
	switch {
	case coolant > fanOnC:
		fan = 1
	case coolant < fanOffC:
		fan = 0
	}
	if physicsFailure {
		if eff, ok := sig.Effects[sensorFanState]; ok {
			fan = eff.Target(cfg.FailureSeverity)
		}
	}

	// Coolant flow follows pump speed; pump failures override it.
	flow := 8 + 0.02*p.EngineRPM
	if physicsFailure {
		if eff, ok := sig.Effects[sensorFlowRate]; ok {
			flow = eff.Apply(cfg.FailureSeverity, jitter)
		}
	}

	// Heat balance.
	transfer := kTransfer * (flow / nominalFlowLPM) * (engineTemp - coolant)
	airflow := p.AirflowFactor + fanAirflowBoost*fan
	rejection := kRadiator * thermostatPos * airflow * (coolant - ambient)
	if rejection < 0 {
		rejection = 0
	}
	passive := kPassive * (coolant - ambient)

	engineTemp = clamp(engineTemp+(heatGen-transfer)/engineThermalMass*dt, ambient, engineTempCeiling)

	coolantEffect, hasCoolantEffect := sig.Effects[sensorCoolantTemp]
	if physicsFailure && hasCoolantEffect {
		// The failure pins the thermal equilibrium: approach the
		// severity-dependent target instead of integrating a balance the
		// simplified model can no longer represent (boiling, stagnant
		// flow, gas intrusion).
		target := coolantEffect.Apply(cfg.FailureSeverity, jitter)
		coolant = approach(coolant, target, failureApproachTau, dt)
	} else {
		coolant += (transfer - rejection - passive) / coolantThermalMass * dt
	}

	// Oil tracks the real thermal state with a slow time constant.
	oilTarget := coolant + 4 + 6*p.LoadFraction
	oil := approach(next.Sensors[sensorOilTemp], oilTarget, 40, dt)

	// Radiator delta-T from the heat actually moved by the coolant. Using
	// the transfer term rather than the rejection term keeps the reading
	// sane for failures that pin the coolant equilibrium directly.
	var deltaT float64
	if flow > 0.5 && thermostatPos > 0.01 {
		deltaT = clamp((transfer-passive)/(flow*kDeltaT), 0, 30)
	}
	if physicsFailure {
		if eff, ok := sig.Effects[sensorRadiatorDelta]; ok {
			deltaT = eff.Apply(cfg.FailureSeverity, jitter)
		}
	}

	// System pressure rises with coolant temperature; leaks and gas
	// intrusion override it.
	pressure := clamp(88+0.35*(coolant-60), 20, 250)
	if physicsFailure {
		if eff, ok := sig.Effects[sensorSystemPress]; ok {
			pressure = eff.Apply(cfg.FailureSeverity, jitter)
		}
	}

	// Reporting layer: a failed ECT sensor lies about the coolant while
	// the physics above stays honest.
	reported := coolant
	if sensorOnly {
		reported = coolantEffect.Apply(cfg.FailureSeverity, jitter)
	}

	// Short-term fuel trim derives from the *reported* temperature.
	trim := clamp(trimGain*(reported-trimTargetC), -trimLimit, trimLimit)

	next.Internal[internalEngineTemp] = engineTemp
	next.Internal[internalActualCoolant] = coolant
	next.Sensors[sensorCoolantTemp] = reported
	next.Sensors[sensorOilTemp] = oil
	next.Sensors[sensorFanState] = fan
	next.Sensors[sensorThermostatPos] = thermostatPos
	next.Sensors[sensorRadiatorDelta] = deltaT
	next.Sensors[sensorFlowRate] = flow
	next.Sensors[sensorSystemPress] = pressure
	next.Sensors[sensorAmbientTemp] = ambient
	next.Sensors[sensorFuelTrim] = trim
	return next, nil
}

func (c *CoolingSimulator) CheckDTCs(st sim.State, elapsed float64) []string {
	return sim.EvalDTCRules(c.rules, st, elapsed)
}
