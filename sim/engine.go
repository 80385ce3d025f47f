package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// ErrUnknownSystem is returned by Engine.Run for an unregistered system id.
// Fatal to the call; never retried.
var ErrUnknownSystem = errors.New("no simulator registered for system id")

// Engine holds the registry mapping system id to its SystemSimulator and
// dispatches runs. Registration happens once at startup; afterwards the
// registry is read-only, so Run is safe to call concurrently.
type Engine struct {
	simulators map[string]SystemSimulator
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{simulators: make(map[string]SystemSimulator)}
}

// Register inserts (or overwrites) a simulator under its system id after
// validating its declarations: schema well-formedness, DTC rules and
// signatures referencing only declared sensors, and pairwise separability
// of the signature table. Getting these checks at startup means a typo'd
// sensor name or an ambiguous failure pair cannot survive into a generated
// dataset.
func (e *Engine) Register(s SystemSimulator) error {
	id := s.SystemID()
	if id == "" {
		return fmt.Errorf("simulator has empty system id")
	}

	schema := s.Schema()
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("system %q: %w", id, err)
	}

	for _, rule := range s.DTCRules() {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("system %q: %w", id, err)
		}
		if !schema.HasSensor(rule.Sensor) {
			return fmt.Errorf("system %q: dtc rule %q references undeclared sensor %q",
				id, rule.Code, rule.Sensor)
		}
	}

	sigs := s.Signatures()
	if sigs == nil {
		return fmt.Errorf("system %q declares no signature set", id)
	}
	if err := sigs.Validate(schema); err != nil {
		return fmt.Errorf("system %q: %w", id, err)
	}
	if err := sigs.CheckSeparability(); err != nil {
		return fmt.Errorf("system %q: %w", id, err)
	}

	e.simulators[id] = s
	logrus.Debugf("registered simulator %q (%d sensors, %d failure modes, %d dtc rules)",
		id, len(schema.Sensors), len(sigs.Failures), len(s.DTCRules()))
	return nil
}

// Lookup returns the simulator registered under id.
func (e *Engine) Lookup(id string) (SystemSimulator, bool) {
	s, ok := e.simulators[id]
	return s, ok
}

// SystemIDs returns the registered system ids in sorted order.
func (e *Engine) SystemIDs() []string {
	ids := make([]string, 0, len(e.simulators))
	for id := range e.simulators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run dispatches one simulation to the simulator registered under systemID.
func (e *Engine) Run(systemID string, cfg SimulationConfig) (*SimulationResult, error) {
	s, ok := e.simulators[systemID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, systemID)
	}
	return Simulate(s, cfg)
}
