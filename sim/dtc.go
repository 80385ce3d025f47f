package sim

import "fmt"

// Comparator is the relation a DTC rule applies between a sensor value and
// its threshold.
type Comparator string

const (
	CmpGreater Comparator = ">"
	CmpLess    Comparator = "<"
	CmpEqual   Comparator = "=="
)

// equalityTolerance absorbs float drift when a rule uses CmpEqual.
const equalityTolerance = 1e-6

// DTCRule triggers a diagnostic trouble code when a sensor value crosses a
// threshold. WarmupSeconds > 0 gates the rule on elapsed run time: the rule
// cannot fire until the warm-up window has passed, which keeps "running too
// cold" codes quiet during a legitimate cold start.
type DTCRule struct {
	Sensor        string
	Op            Comparator
	Threshold     float64
	Code          string
	WarmupSeconds float64
}

// Validate checks the rule is well-formed (known comparator, non-empty code).
func (r DTCRule) Validate() error {
	switch r.Op {
	case CmpGreater, CmpLess, CmpEqual:
	default:
		return fmt.Errorf("dtc rule %q: unknown comparator %q", r.Code, r.Op)
	}
	if r.Code == "" {
		return fmt.Errorf("dtc rule on sensor %q has empty code", r.Sensor)
	}
	if r.Sensor == "" {
		return fmt.Errorf("dtc rule %q has empty sensor", r.Code)
	}
	if r.WarmupSeconds < 0 {
		return fmt.Errorf("dtc rule %q: negative warmup %g", r.Code, r.WarmupSeconds)
	}
	return nil
}

// Matches reports whether the rule fires for the given sensor value.
func (r DTCRule) Matches(value float64) bool {
	switch r.Op {
	case CmpGreater:
		return value > r.Threshold
	case CmpLess:
		return value < r.Threshold
	case CmpEqual:
		diff := value - r.Threshold
		return diff < equalityTolerance && diff > -equalityTolerance
	default:
		return false
	}
}

// EvalDTCRules evaluates every rule against the current state and returns
// the codes that fire. Warm-up gating uses the elapsed run time threaded in
// by the caller, never an accumulator on the simulator, so concurrent runs
// of one simulator cannot bleed warm-up clocks into each other.
func EvalDTCRules(rules []DTCRule, st State, elapsed float64) []string {
	var codes []string
	for _, r := range rules {
		if r.WarmupSeconds > 0 && elapsed <= r.WarmupSeconds {
			continue
		}
		v, ok := st.Sensors[r.Sensor]
		if !ok {
			continue
		}
		if r.Matches(v) {
			codes = append(codes, r.Code)
		}
	}
	return codes
}
