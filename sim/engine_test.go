package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRegisterAndRun(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Register(&rampSimulator{id: "demo"}))

	s, ok := e.Lookup("demo")
	require.True(t, ok)
	assert.Equal(t, "demo", s.SystemID())

	res, err := e.Run("demo", testRunConfig())
	require.NoError(t, err)
	assert.Len(t, res.Points, 61)
}

func TestEngineRunUnknownSystem(t *testing.T) {
	e := NewEngine()
	_, err := e.Run("warp_drive", testRunConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSystem))
	assert.Contains(t, err.Error(), "warp_drive")
}

func TestEngineSystemIDsSorted(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Register(&rampSimulator{id: "zeta"}))
	require.NoError(t, e.Register(&rampSimulator{id: "alpha"}))
	require.NoError(t, e.Register(&rampSimulator{id: "mid"}))
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, e.SystemIDs())
}

func TestEngineRegisterRejectsEmptyID(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.Register(&rampSimulator{}))
}

// badRuleSimulator wraps rampSimulator with a DTC rule on a sensor the
// schema never declares.
type badRuleSimulator struct{ rampSimulator }

func (s *badRuleSimulator) DTCRules() []DTCRule {
	return []DTCRule{{Sensor: "boost", Op: CmpGreater, Threshold: 1, Code: "X001"}}
}

func TestEngineRegisterRejectsUndeclaredRuleSensor(t *testing.T) {
	e := NewEngine()
	err := e.Register(&badRuleSimulator{rampSimulator{id: "demo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boost")
}

// inseparableSimulator declares two failures with identical bands.
type inseparableSimulator struct{ rampSimulator }

func (s *inseparableSimulator) Signatures() *SignatureSet {
	eff := map[string]SensorEffect{
		"pressure": {AtZero: 30, AtOne: 10, Jitter: 2, Band: Band{Lo: 5, Hi: 35}},
	}
	return &SignatureSet{
		Normal: map[string]Band{"pressure": {Lo: 80, Hi: 120}},
		Failures: map[string]Signature{
			"leak_a": {FailureID: "leak_a", Effects: eff},
			"leak_b": {FailureID: "leak_b", Effects: eff},
		},
	}
}

func TestEngineRegisterRejectsInseparableSignatures(t *testing.T) {
	e := NewEngine()
	err := e.Register(&inseparableSimulator{rampSimulator{id: "demo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap on every sensor")
}
