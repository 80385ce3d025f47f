package sim

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// noiseFloor is the minimum noise sigma so near-zero sensors still wobble.
const noiseFloor = 0.01

// SystemSimulator is the per-system physics contract. One long-lived
// instance per system is registered with the Engine. Implementations MUST
// NOT hold run state on the receiver: everything mutable belongs in State,
// which makes a registered simulator safe to drive from many goroutines at
// once during dataset generation.
type SystemSimulator interface {
	// SystemID returns the registry key, e.g. "cooling".
	SystemID() string

	// Schema declares every sensor and internal variable with defaults.
	// Checked once at registration.
	Schema() StateSchema

	// DTCRules returns the threshold rules evaluated after every step.
	DTCRules() []DTCRule

	// Signatures returns the declarative failure-signature table. The
	// engine validates it against the schema and checks pairwise
	// separability at registration.
	Signatures() *SignatureSet

	// InitState merges schema defaults, condition-specific adjustments
	// (cold start begins at ambient, hot ambient pre-warmed) and the
	// config's sparse overrides. Pure function of the config.
	InitState(cfg SimulationConfig) (State, error)

	// Step advances the physics by dt at elapsed time t and returns the
	// new state. When the config's failure is active, Step applies the
	// failure's signature on top of (or instead of) the physics. Pure
	// function of (state, dt, t, cfg) plus the explicit jitter stream.
	Step(st State, dt, t float64, cfg SimulationConfig, jitter *rand.Rand) (State, error)

	// ApplyFailure is the early-override hook for instantaneous failures
	// (stuck sensors that must read out-of-range immediately). Called
	// before Step once the failure is active. Most simulators return the
	// state unchanged.
	ApplyFailure(st State, cfg SimulationConfig, t float64) State

	// CheckDTCs evaluates the DTC rules against the state. elapsed is the
	// run time used for warm-up gating.
	CheckDTCs(st State, elapsed float64) []string
}

// Simulate drives the fixed-step loop for one run:
//
//	t = 0; while t <= duration:
//	    apply_failure (if active) -> step ->
//	    record point (noisy copy when enabled) -> union DTCs -> t += time_step
//
// Measurement noise perturbs only the recorded snapshot. The clean state is
// what Step integrates and what the DTC rules see, so noise never compounds
// into a random walk across steps and never trips a threshold on its own.
// A step error aborts the single run and propagates; there are no retries.
// With AddNoise=false the result is a pure function of (simulator, config).
func Simulate(s SystemSimulator, cfg SimulationConfig) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if cfg.FailureID != "" {
		if _, ok := s.Signatures().Lookup(cfg.FailureID); !ok {
			return nil, fmt.Errorf("simulator %q has no failure mode %q", s.SystemID(), cfg.FailureID)
		}
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	jitter := rng.ForSubsystem(SubsystemJitter)
	noise := rng.ForSubsystem(SubsystemNoise)

	st, err := s.InitState(cfg)
	if err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}

	result := NewSimulationResult(s.SystemID(), cfg)

	// Half-step epsilon keeps float accumulation from dropping the final
	// point when duration is an exact multiple of the step.
	limit := cfg.DurationSeconds + cfg.TimeStep/2
	for t := 0.0; t <= limit; t += cfg.TimeStep {
		if cfg.FailureActive(t) {
			st = s.ApplyFailure(st, cfg, t)
		}

		st, err = s.Step(st, cfg.TimeStep, t, cfg, jitter)
		if err != nil {
			return nil, fmt.Errorf("step at t=%gs: %w", t, err)
		}

		recorded := st
		if cfg.AddNoise && cfg.NoiseLevel > 0 {
			recorded = st.Clone()
			applyNoise(recorded, cfg.NoiseLevel, noise)
		}

		result.Record(t, recorded.Sensors)
		result.AddDTCs(s.CheckDTCs(st, t))
	}

	result.FinalState = result.Points[len(result.Points)-1].Values
	result.DTCs = result.DTCList()
	return result, nil
}

// applyNoise perturbs every sensor of the recorded copy with Gaussian noise
// proportional to its magnitude plus a small floor. Sensors are visited in
// sorted order so the noise stream is consumed identically across runs with
// the same seed.
func applyNoise(st State, level float64, noise *rand.Rand) {
	for _, name := range sortedKeys(st.Sensors) {
		v := st.Sensors[name]
		sigma := level*math.Abs(v) + noiseFloor
		n := distuv.Normal{Mu: 0, Sigma: sigma, Src: noise}
		st.Sensors[name] = v + n.Rand()
	}
}

func sortedKeys(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
