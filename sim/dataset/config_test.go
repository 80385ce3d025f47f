package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

func TestDefaultGeneratorConfigValid(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	assert.NoError(t, cfg.Validate())
}

func TestGeneratorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GeneratorConfig)
		wantErr string
	}{
		{"negative samples", func(c *GeneratorConfig) { c.SamplesPerFailure = -1 }, "samples_per_failure"},
		{"nothing to generate", func(c *GeneratorConfig) { c.SamplesPerFailure = 0; c.NormalSamples = 0 }, "both zero"},
		{"zero time step", func(c *GeneratorConfig) { c.TimeStep = 0 }, "time_step"},
		{"unknown condition", func(c *GeneratorConfig) { c.Conditions = []sim.OperatingCondition{"drifting"} }, "operating condition"},
		{"inverted duration", func(c *GeneratorConfig) { c.Duration = Range{Min: 600, Max: 120} }, "inverted"},
		{"zero duration", func(c *GeneratorConfig) { c.Duration = Range{Min: 0, Max: 0} }, "duration_seconds"},
		{"inverted ambient", func(c *GeneratorConfig) { c.AmbientTemp = Range{Min: 40, Max: -10} }, "inverted"},
		{"severity above one", func(c *GeneratorConfig) { c.Severity = Range{Min: 0.5, Max: 1.5} }, "severity"},
		{"severity below zero", func(c *GeneratorConfig) { c.Severity = Range{Min: -0.1, Max: 0.5} }, "severity"},
		{"onset above one", func(c *GeneratorConfig) { c.OnsetFraction = Range{Min: 0, Max: 1.5} }, "onset_fraction"},
		{"negative noise", func(c *GeneratorConfig) { c.NoiseLevel = Range{Min: -0.01, Max: 0.01} }, "noise_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGeneratorConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadGeneratorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.yaml")
	content := `samples_per_failure: 5
normal_samples: 8
conditions: [city_driving, highway]
duration_seconds: {min: 200, max: 200}
severity: {min: 0.5, max: 0.9}
seed: 99
workers: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGeneratorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.SamplesPerFailure)
	assert.Equal(t, 8, cfg.NormalSamples)
	assert.Equal(t, []sim.OperatingCondition{sim.CondCityDriving, sim.CondHighway}, cfg.Conditions)
	assert.Equal(t, Range{Min: 200, Max: 200}, cfg.Duration)
	assert.Equal(t, Range{Min: 0.5, Max: 0.9}, cfg.Severity)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)

	// Omitted fields keep their defaults.
	assert.Equal(t, 1.0, cfg.TimeStep)
	assert.Equal(t, Range{Min: -10, Max: 40}, cfg.AmbientTemp)
}

func TestLoadGeneratorConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.yaml")
	content := `duration_seconds: {min: 600, max: 100}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadGeneratorConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted")
}

func TestConditionPool(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	assert.Equal(t, sim.AllConditions(), cfg.conditionPool())

	cfg.Conditions = []sim.OperatingCondition{sim.CondIdle}
	assert.Equal(t, []sim.OperatingCondition{sim.CondIdle}, cfg.conditionPool())
}
