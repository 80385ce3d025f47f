package sim

import (
	"fmt"
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSampling is the RNG subsystem for dataset parameter sampling
	// (operating condition, ambient temperature, duration, severity).
	SubsystemSampling = "sampling"

	// SubsystemJitter is the RNG subsystem for failure-signature jitter.
	SubsystemJitter = "jitter"

	// SubsystemNoise is the RNG subsystem for sensor measurement noise.
	SubsystemNoise = "noise"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Isolation matters here: turning measurement noise on or off must not shift
// the jitter stream, or noisy and noise-free runs of the same seed would
// disagree on the underlying signal.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
// Parallel dataset generation derives an independent PartitionedRNG per
// sample instead of sharing one.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil. The returned *rand.Rand implements rand.Source, so it can
// be plugged into gonum's distuv distributions directly.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := uint64(p.key) ^ uint64(fnv1a64(name))
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// DeriveSeed produces a child seed from a master seed and a label.
// Used by the dataset generator to give every sample its own independent
// seed so generation order and worker count cannot change the output.
func DeriveSeed(master int64, label string) int64 {
	return master ^ fnv1a64(label)
}

// DeriveSampleSeed is the canonical per-sample derivation used by dataset
// generation: one seed per (system, failure, index) triple.
func DeriveSampleSeed(master int64, systemID, failureID string, index int) int64 {
	return DeriveSeed(master, fmt.Sprintf("%s/%s/%d", systemID, failureID, index))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
