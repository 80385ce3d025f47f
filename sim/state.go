package sim

import (
	"fmt"
	"sort"
)

// StateSchema declares the full variable set of a simulator up front:
// externally observable sensors (recorded into the time series) and internal
// physical variables (engine block temperature, run-local accumulators)
// that never leave the simulation. Declaring both at registration time lets
// the engine reject DTC rules and failure signatures that reference
// undeclared sensors, so a typo fails at startup rather than producing a
// silently-constant column.
type StateSchema struct {
	// Sensors maps each observable sensor name to its default value.
	Sensors map[string]float64
	// Internal maps each internal variable name to its default value.
	Internal map[string]float64
}

// SensorNames returns the declared sensor names in sorted order.
func (s StateSchema) SensorNames() []string {
	names := make([]string, 0, len(s.Sensors))
	for name := range s.Sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSensor reports whether name is a declared observable sensor.
func (s StateSchema) HasSensor(name string) bool {
	_, ok := s.Sensors[name]
	return ok
}

// Validate checks the schema is usable: at least one sensor, and no name
// declared both as a sensor and as an internal variable.
func (s StateSchema) Validate() error {
	if len(s.Sensors) == 0 {
		return fmt.Errorf("schema declares no sensors")
	}
	for name := range s.Internal {
		if _, dup := s.Sensors[name]; dup {
			return fmt.Errorf("variable %q declared both sensor and internal", name)
		}
	}
	return nil
}

// State is the complete mutable state of one run at one instant. Sensors are
// what a TimeSeriesPoint records; Internal carries physical state and
// run-local accumulators. All run state lives here — simulators themselves
// hold none, which keeps a single registered simulator safe to use from a
// worker pool.
type State struct {
	Sensors  map[string]float64
	Internal map[string]float64
}

// NewState builds a State populated with the schema defaults.
func NewState(schema StateSchema) State {
	st := State{
		Sensors:  make(map[string]float64, len(schema.Sensors)),
		Internal: make(map[string]float64, len(schema.Internal)),
	}
	for name, v := range schema.Sensors {
		st.Sensors[name] = v
	}
	for name, v := range schema.Internal {
		st.Internal[name] = v
	}
	return st
}

// Clone returns a deep copy. Step implementations mutate the copy so the
// recorded history is never aliased.
func (st State) Clone() State {
	out := State{
		Sensors:  make(map[string]float64, len(st.Sensors)),
		Internal: make(map[string]float64, len(st.Internal)),
	}
	for name, v := range st.Sensors {
		out.Sensors[name] = v
	}
	for name, v := range st.Internal {
		out.Internal[name] = v
	}
	return out
}

// ApplyOverrides copies sparse initial-state overrides into the state.
// Unknown names are rejected rather than silently ignored.
func (st State) ApplyOverrides(overrides map[string]float64) error {
	for name, v := range overrides {
		if _, ok := st.Sensors[name]; ok {
			st.Sensors[name] = v
			continue
		}
		if _, ok := st.Internal[name]; ok {
			st.Internal[name] = v
			continue
		}
		return fmt.Errorf("initial state override for undeclared variable %q", name)
	}
	return nil
}
