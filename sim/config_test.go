package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParamsKnown(t *testing.T) {
	for _, c := range AllConditions() {
		p, ok := c.Params()
		require.True(t, ok, "condition %q has no params", c)
		assert.Greater(t, p.EngineRPM, 0.0, "condition %q", c)
		assert.GreaterOrEqual(t, p.LoadFraction, 0.0, "condition %q", c)
		assert.LessOrEqual(t, p.LoadFraction, 1.0, "condition %q", c)
		assert.Greater(t, p.AirflowFactor, 0.0, "condition %q", c)
		assert.Greater(t, p.HeatFactor, 0.0, "condition %q", c)
	}

	_, ok := OperatingCondition("towing").Params()
	assert.False(t, ok)
}

func TestSimulationConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimulationConfig)
		wantErr string
	}{
		{"default ok", func(c *SimulationConfig) {}, ""},
		{"zero duration", func(c *SimulationConfig) { c.DurationSeconds = 0 }, "duration_seconds"},
		{"negative duration", func(c *SimulationConfig) { c.DurationSeconds = -5 }, "duration_seconds"},
		{"zero step", func(c *SimulationConfig) { c.TimeStep = 0 }, "time_step"},
		{"step exceeds duration", func(c *SimulationConfig) { c.TimeStep = 500 }, "exceeds duration"},
		{"unknown condition", func(c *SimulationConfig) { c.Condition = "towing" }, "operating condition"},
		{"severity above one", func(c *SimulationConfig) { c.FailureSeverity = 1.2 }, "failure_severity"},
		{"severity below zero", func(c *SimulationConfig) { c.FailureSeverity = -0.1 }, "failure_severity"},
		{"negative onset", func(c *SimulationConfig) { c.FailureOnsetTime = -1 }, "failure_onset_time"},
		{"negative noise", func(c *SimulationConfig) { c.NoiseLevel = -0.1 }, "noise_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadSimulationConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `duration_seconds: 600
operating_condition: highway
ambient_temp_c: 35
failure_id: coolant_leak
failure_severity: 0.8
seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadSimulationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.DurationSeconds)
	assert.Equal(t, CondHighway, cfg.Condition)
	assert.Equal(t, 35.0, cfg.AmbientTempC)
	assert.Equal(t, "coolant_leak", cfg.FailureID)
	assert.Equal(t, 0.8, cfg.FailureSeverity)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 1.0, cfg.TimeStep, "omitted field should keep its default")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("time_step: -1\n"), 0o644))
	_, err = LoadSimulationConfig(bad)
	assert.Error(t, err)
}

func TestFailureActive(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.FailureActive(0), "no failure configured")

	cfg.FailureID = "coolant_leak"
	cfg.FailureOnsetTime = 100
	assert.False(t, cfg.FailureActive(99))
	assert.True(t, cfg.FailureActive(100))
	assert.True(t, cfg.FailureActive(250))
}
