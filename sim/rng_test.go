package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNGDeterminism(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(42))
	b := NewPartitionedRNG(NewSimulationKey(42))

	ra := a.ForSubsystem(SubsystemJitter)
	rb := b.ForSubsystem(SubsystemJitter)
	for i := 0; i < 100; i++ {
		assert.Equal(t, ra.Float64(), rb.Float64(), "draw %d diverged for same key", i)
	}
}

func TestPartitionedRNGSubsystemIsolation(t *testing.T) {
	// Draining one subsystem's stream must not shift another's.
	a := NewPartitionedRNG(NewSimulationKey(7))
	b := NewPartitionedRNG(NewSimulationKey(7))

	noise := a.ForSubsystem(SubsystemNoise)
	for i := 0; i < 1000; i++ {
		noise.Float64()
	}

	ja := a.ForSubsystem(SubsystemJitter)
	jb := b.ForSubsystem(SubsystemJitter)
	for i := 0; i < 100; i++ {
		assert.Equal(t, ja.Float64(), jb.Float64(), "jitter stream shifted by noise draws")
	}
}

func TestPartitionedRNGCachesInstances(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1))
	first := p.ForSubsystem(SubsystemSampling)
	second := p.ForSubsystem(SubsystemSampling)
	assert.Same(t, first, second)
}

func TestPartitionedRNGDifferentKeysDiverge(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(1)).ForSubsystem(SubsystemJitter)
	b := NewPartitionedRNG(NewSimulationKey(2)).ForSubsystem(SubsystemJitter)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "different keys produced identical streams")
}

func TestDeriveSampleSeed(t *testing.T) {
	base := DeriveSampleSeed(42, "cooling", "coolant_leak", 0)

	assert.Equal(t, base, DeriveSampleSeed(42, "cooling", "coolant_leak", 0), "derivation not stable")
	assert.NotEqual(t, base, DeriveSampleSeed(42, "cooling", "coolant_leak", 1), "index ignored")
	assert.NotEqual(t, base, DeriveSampleSeed(42, "cooling", "fan_failure", 0), "failure id ignored")
	assert.NotEqual(t, base, DeriveSampleSeed(42, "fuel", "coolant_leak", 0), "system id ignored")
	assert.NotEqual(t, base, DeriveSampleSeed(43, "cooling", "coolant_leak", 0), "master seed ignored")
}
