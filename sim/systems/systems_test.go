package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

func registeredEngine(t *testing.T) *sim.Engine {
	t.Helper()
	e := sim.NewEngine()
	require.NoError(t, RegisterAll(e))
	return e
}

func TestRegisterAllSystems(t *testing.T) {
	e := registeredEngine(t)
	assert.Equal(t, []string{
		"brakes", "charging", "cooling", "emissions", "engine", "fuel",
		"hvac", "ignition", "steering", "suspension", "transmission",
	}, e.SystemIDs())
}

// Registration already enforces schema validity and pairwise separability;
// this re-runs the checks directly so a regression names the system.
func TestEverySignatureTableSeparable(t *testing.T) {
	e := registeredEngine(t)
	for _, id := range e.SystemIDs() {
		s, _ := e.Lookup(id)
		assert.NoError(t, s.Signatures().Validate(s.Schema()), "system %q", id)
		assert.NoError(t, s.Signatures().CheckSeparability(), "system %q", id)
	}
}

func TestNormalOperationFiresNoDTCs(t *testing.T) {
	e := registeredEngine(t)
	for _, id := range e.SystemIDs() {
		for _, cond := range sim.AllConditions() {
			cfg := sim.DefaultConfig()
			cfg.DurationSeconds = 400
			cfg.Condition = cond

			res, err := e.Run(id, cfg)
			require.NoError(t, err, "%s/%s", id, cond)
			assert.Empty(t, res.DTCList(), "%s under %s fired DTCs: %v", id, cond, res.DTCList())
		}
	}
}

// Measurement noise is recorded but never integrated or fed to the DTC
// rules, so a healthy system stays code-free no matter how the draws land.
func TestNoisyNormalOperationFiresNoDTCs(t *testing.T) {
	e := registeredEngine(t)
	for _, id := range []string{"charging", "suspension", "transmission"} {
		for seed := int64(0); seed < 5; seed++ {
			cfg := sim.DefaultConfig()
			cfg.DurationSeconds = 300
			cfg.AddNoise = true
			cfg.NoiseLevel = 0.03
			cfg.Seed = seed

			res, err := e.Run(id, cfg)
			require.NoError(t, err, "%s seed %d", id, seed)
			assert.Empty(t, res.DTCList(), "%s seed %d fired DTCs: %v", id, seed, res.DTCList())
		}
	}
}

func TestEveryFailureConformsToItsSignature(t *testing.T) {
	e := registeredEngine(t)
	for _, id := range e.SystemIDs() {
		s, _ := e.Lookup(id)
		for _, failureID := range s.Signatures().FailureIDs() {
			cfg := sim.DefaultConfig()
			cfg.DurationSeconds = 200
			cfg.FailureID = failureID
			cfg.FailureSeverity = 0.6
			cfg.Seed = 5

			res, err := e.Run(id, cfg)
			require.NoError(t, err, "%s/%s", id, failureID)

			sig, _ := s.Signatures().Lookup(failureID)
			for sensor, eff := range sig.Effects {
				v := res.FinalState[sensor]
				assert.True(t, eff.Band.Contains(v),
					"%s/%s: final %s = %g outside band [%g, %g]",
					id, failureID, sensor, v, eff.Band.Lo, eff.Band.Hi)
			}
		}
	}
}

func TestFailuresTriggerExpectedDTCs(t *testing.T) {
	tests := []struct {
		system  string
		failure string
		code    string
	}{
		{"fuel", "fuel_pump_failure", "P0087"},
		{"fuel", "fuel_pump_weak", "P0171"},
		{"ignition", "coil_failure", "P0300"},
		{"charging", "alternator_failure", "P0562"},
		{"charging", "voltage_regulator_stuck_high", "P0563"},
		{"transmission", "clutch_slipping", "P0741"},
		{"transmission", "cooler_blocked", "P0218"},
		{"brakes", "fluid_leak", "C0049"},
		{"brakes", "caliper_sticking", "C0050"},
		{"engine", "oil_pump_failure", "P0524"},
		{"engine", "timing_chain_stretched", "P0016"},
		{"steering", "power_steering_pump_failure", "C0545"},
		{"steering", "tie_rod_wear", "C0547"},
		{"suspension", "air_spring_leak", "C1726"},
		{"hvac", "refrigerant_low", "P0534"},
		{"hvac", "blend_door_stuck", "B1342"},
		{"emissions", "catalyst_degraded", "P0420"},
		{"emissions", "egr_stuck_closed", "P0401"},
		{"emissions", "o2_sensor_lazy", "P0133"},
	}

	e := registeredEngine(t)
	for _, tt := range tests {
		t.Run(tt.system+"/"+tt.failure, func(t *testing.T) {
			cfg := sim.DefaultConfig()
			cfg.DurationSeconds = 200
			cfg.FailureID = tt.failure
			cfg.FailureSeverity = 0.8

			res, err := e.Run(tt.system, cfg)
			require.NoError(t, err)
			assert.Contains(t, res.DTCList(), tt.code)
		})
	}
}

func TestFailureOnsetLeavesPriorStepsNormal(t *testing.T) {
	e := registeredEngine(t)
	cfg := sim.DefaultConfig()
	cfg.DurationSeconds = 200
	cfg.FailureID = "fuel_pump_failure"
	cfg.FailureSeverity = 1
	cfg.FailureOnsetTime = 100

	res, err := e.Run("fuel", cfg)
	require.NoError(t, err)

	pre := res.Points[99].Values["fuel_pressure_kpa"]
	assert.True(t, pre >= 330 && pre <= 420, "pre-onset pressure %g left normal band", pre)
	post := res.FinalState["fuel_pressure_kpa"]
	assert.True(t, post >= 0 && post <= 50, "post-onset pressure %g outside failure band", post)
}
