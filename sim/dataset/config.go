// Package dataset turns the simulation engine into labeled training data:
// it samples run parameters per failure mode, drives simulations across a
// worker pool, and persists the resulting samples as JSON or JSONL. Output
// is reproducible: the same master seed yields the same dataset regardless
// of worker count.
package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

// Range is a closed interval that generation parameters are drawn from
// uniformly. Min == Max pins the parameter.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Validate fails on an inverted range.
func (r Range) Validate(name string) error {
	if r.Max < r.Min {
		return fmt.Errorf("%s range inverted: min %g > max %g", name, r.Min, r.Max)
	}
	return nil
}

// GeneratorConfig controls dataset generation. Immutable once handed to
// NewGenerator.
type GeneratorConfig struct {
	// SamplesPerFailure is the number of runs generated per failure mode.
	SamplesPerFailure int `yaml:"samples_per_failure" json:"samples_per_failure"`

	// NormalSamples is the number of no-failure runs per system.
	NormalSamples int `yaml:"normal_samples" json:"normal_samples"`

	// Conditions restricts sampling to these operating conditions. Empty
	// means all conditions.
	Conditions []sim.OperatingCondition `yaml:"conditions,omitempty" json:"conditions,omitempty"`

	Duration    Range   `yaml:"duration_seconds" json:"duration_seconds"`
	TimeStep    float64 `yaml:"time_step" json:"time_step"`
	AmbientTemp Range   `yaml:"ambient_temp_c" json:"ambient_temp_c"`

	// Severity is the draw range for failure severity. Defaults to
	// [0.2, 1.0]: severities near zero produce signals indistinguishable
	// from normal and would poison the labels.
	Severity Range `yaml:"severity" json:"severity"`

	// OnsetFraction places failure onset at this fraction of the run
	// duration. Zero means the failure is present from the first step.
	OnsetFraction Range `yaml:"onset_fraction" json:"onset_fraction"`

	AddNoise   bool  `yaml:"add_noise" json:"add_noise"`
	NoiseLevel Range `yaml:"noise_level" json:"noise_level"`

	// Seed is the master seed. Every sample derives its own seed from it,
	// so neither generation order nor Workers affects the output.
	Seed int64 `yaml:"seed" json:"seed"`

	// Workers is the parallel worker count. Zero or negative selects one
	// worker per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultGeneratorConfig returns a small runnable configuration: 10 samples
// per failure, 20 normals, 120-600 s runs at 1 s resolution across all
// conditions, ambient -10 to 40 C, noisy.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		SamplesPerFailure: 10,
		NormalSamples:     20,
		Duration:          Range{Min: 120, Max: 600},
		TimeStep:          1.0,
		AmbientTemp:       Range{Min: -10, Max: 40},
		Severity:          Range{Min: 0.2, Max: 1.0},
		AddNoise:          true,
		NoiseLevel:        Range{Min: 0.01, Max: 0.03},
	}
}

// Validate fails fast on configurations that cannot produce a usable
// dataset.
func (c *GeneratorConfig) Validate() error {
	if c.SamplesPerFailure < 0 {
		return fmt.Errorf("samples_per_failure must be non-negative, got %d", c.SamplesPerFailure)
	}
	if c.NormalSamples < 0 {
		return fmt.Errorf("normal_samples must be non-negative, got %d", c.NormalSamples)
	}
	if c.SamplesPerFailure == 0 && c.NormalSamples == 0 {
		return fmt.Errorf("samples_per_failure and normal_samples are both zero")
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time_step must be positive, got %g", c.TimeStep)
	}
	for _, cond := range c.Conditions {
		if !cond.Valid() {
			return fmt.Errorf("unknown operating condition %q", cond)
		}
	}
	if err := c.Duration.Validate("duration_seconds"); err != nil {
		return err
	}
	if c.Duration.Min <= 0 {
		return fmt.Errorf("duration_seconds min must be positive, got %g", c.Duration.Min)
	}
	if err := c.AmbientTemp.Validate("ambient_temp_c"); err != nil {
		return err
	}
	if err := c.Severity.Validate("severity"); err != nil {
		return err
	}
	if c.Severity.Min < 0 || c.Severity.Max > 1 {
		return fmt.Errorf("severity range [%g, %g] outside [0, 1]", c.Severity.Min, c.Severity.Max)
	}
	if err := c.OnsetFraction.Validate("onset_fraction"); err != nil {
		return err
	}
	if c.OnsetFraction.Min < 0 || c.OnsetFraction.Max > 1 {
		return fmt.Errorf("onset_fraction range [%g, %g] outside [0, 1]", c.OnsetFraction.Min, c.OnsetFraction.Max)
	}
	if err := c.NoiseLevel.Validate("noise_level"); err != nil {
		return err
	}
	if c.NoiseLevel.Min < 0 {
		return fmt.Errorf("noise_level min must be non-negative, got %g", c.NoiseLevel.Min)
	}
	return nil
}

// conditionPool resolves the condition list to draw from.
func (c *GeneratorConfig) conditionPool() []sim.OperatingCondition {
	if len(c.Conditions) > 0 {
		return c.Conditions
	}
	return sim.AllConditions()
}

// LoadGeneratorConfig reads a YAML generator spec, applying defaults for
// omitted fields before validating.
func LoadGeneratorConfig(path string) (GeneratorConfig, error) {
	cfg := DefaultGeneratorConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read generator config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse generator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid generator config %s: %w", path, err)
	}
	return cfg, nil
}
