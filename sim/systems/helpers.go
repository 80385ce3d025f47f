// Package systems contains the per-system physics simulators. Cooling is
// the richest, modeling a full lumped-parameter heat balance; the remaining
// ten systems share a table-driven core: condition-dependent baseline
// targets, first-order dynamics toward them, and declarative failure
// signatures applied on top.
package systems

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// approach moves current toward target with first-order dynamics and time
// constant tau (seconds). tau <= 0 snaps to the target.
func approach(current, target, tau, dt float64) float64 {
	if tau <= 0 {
		return target
	}
	alpha := 1 - math.Exp(-dt/tau)
	return current + (target-current)*alpha
}

// tableSimulator is the shared implementation behind the ten non-cooling
// systems: baseline sensor targets per operating condition, first-order
// approach dynamics, and signature-table failure injection. All run state
// lives in the State passed through Step; the struct itself is immutable
// after construction.
type tableSimulator struct {
	id     string
	schema sim.StateSchema
	rules  []sim.DTCRule
	sigs   *sim.SignatureSet

	// tau is the approach time constant per sensor; sensors absent from
	// the map snap to their targets.
	tau map[string]float64

	// targets returns the normal-operation baseline per sensor for the
	// given condition.
	targets func(p sim.ConditionParams, cfg sim.SimulationConfig) map[string]float64

	// coldStart optionally overrides initial sensor values for cold-start
	// runs (e.g. temperatures begin at ambient).
	coldStart func(st sim.State, cfg sim.SimulationConfig)
}

func (s *tableSimulator) SystemID() string             { return s.id }
func (s *tableSimulator) Schema() sim.StateSchema      { return s.schema }
func (s *tableSimulator) DTCRules() []sim.DTCRule      { return s.rules }
func (s *tableSimulator) Signatures() *sim.SignatureSet { return s.sigs }

func (s *tableSimulator) InitState(cfg sim.SimulationConfig) (sim.State, error) {
	st := sim.NewState(s.schema)
	if cfg.Condition == sim.CondColdStart && s.coldStart != nil {
		s.coldStart(st, cfg)
	}
	if err := st.ApplyOverrides(cfg.InitialState); err != nil {
		return sim.State{}, err
	}
	return st, nil
}

func (s *tableSimulator) ApplyFailure(st sim.State, cfg sim.SimulationConfig, t float64) sim.State {
	return st
}

func (s *tableSimulator) Step(st sim.State, dt, t float64, cfg sim.SimulationConfig, jitter *rand.Rand) (sim.State, error) {
	p, ok := cfg.Condition.Params()
	if !ok {
		return sim.State{}, fmt.Errorf("unknown operating condition %q", cfg.Condition)
	}

	next := st.Clone()
	for name, target := range s.targets(p, cfg) {
		next.Sensors[name] = approach(next.Sensors[name], target, s.tau[name], dt)
	}

	if cfg.FailureActive(t) {
		if sig, ok := s.sigs.Lookup(cfg.FailureID); ok {
			sig.Apply(next, cfg.FailureSeverity, jitter)
		}
	}
	return next, nil
}

func (s *tableSimulator) CheckDTCs(st sim.State, elapsed float64) []string {
	return sim.EvalDTCRules(s.rules, st, elapsed)
}
