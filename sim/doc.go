// Package sim provides the core fixed-step failure simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - simulator.go: the SystemSimulator contract and the Simulate step loop
//   - signature.go: declarative failure signatures and the separability check
//   - engine.go: the registry and run dispatch
//
// # Architecture
//
// The sim package defines the contract and shared machinery; concrete
// vehicle systems live in sub-packages:
//   - sim/systems/: the eleven per-system simulators (cooling is the
//     richest; the others are table-driven around shared physics helpers)
//   - sim/kb/: the failure-mode knowledge base (data only)
//   - sim/dataset/: randomized training-dataset generation and persistence
//
// Every run is driven by a SimulationConfig and produces a
// SimulationResult: an ordered sensor time series plus the union of all
// diagnostic trouble codes that fired. Determinism is strict: all
// randomness (signature jitter, measurement noise, parameter sampling)
// flows from an explicit seed through PartitionedRNG; nothing touches
// global RNG state, and simulators keep no state between runs, so dataset
// generation parallelizes per sample.
package sim
