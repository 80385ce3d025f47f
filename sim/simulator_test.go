package sim

import (
	"fmt"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampSimulator is a minimal SystemSimulator for engine and loop tests: one
// sensor ramps 1 unit per second from 50, the other holds at 100.
type rampSimulator struct {
	id       string
	stepErr  error
	override bool // exercise the ApplyFailure hook
}

func (s *rampSimulator) SystemID() string { return s.id }

func (s *rampSimulator) Schema() StateSchema {
	return StateSchema{
		Sensors:  map[string]float64{"temp": 50, "pressure": 100},
		Internal: map[string]float64{"heat": 0},
	}
}

func (s *rampSimulator) DTCRules() []DTCRule {
	return []DTCRule{
		{Sensor: "temp", Op: CmpGreater, Threshold: 80, Code: "T001"},
		{Sensor: "pressure", Op: CmpLess, Threshold: 40, Code: "P001", WarmupSeconds: 10},
	}
}

func (s *rampSimulator) Signatures() *SignatureSet {
	return &SignatureSet{
		Normal: map[string]Band{
			"temp":     {Lo: 40, Hi: 160},
			"pressure": {Lo: 80, Hi: 120},
		},
		Failures: map[string]Signature{
			"pressure_loss": {FailureID: "pressure_loss", Effects: map[string]SensorEffect{
				"pressure": {AtZero: 30, AtOne: 10, Jitter: 2, Band: Band{Lo: 5, Hi: 35}},
			}},
		},
	}
}

func (s *rampSimulator) InitState(cfg SimulationConfig) (State, error) {
	st := NewState(s.Schema())
	if err := st.ApplyOverrides(cfg.InitialState); err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *rampSimulator) ApplyFailure(st State, cfg SimulationConfig, t float64) State {
	if s.override {
		st.Sensors["pressure"] = 0
	}
	return st
}

func (s *rampSimulator) Step(st State, dt, t float64, cfg SimulationConfig, jitter *rand.Rand) (State, error) {
	if s.stepErr != nil {
		return State{}, s.stepErr
	}
	next := st.Clone()
	next.Sensors["temp"] += dt
	next.Internal["heat"] += dt
	if cfg.FailureActive(t) {
		if sig, ok := s.Signatures().Lookup(cfg.FailureID); ok {
			sig.Apply(next, cfg.FailureSeverity, jitter)
		}
	}
	return next, nil
}

func (s *rampSimulator) CheckDTCs(st State, elapsed float64) []string {
	return EvalDTCRules(s.DTCRules(), st, elapsed)
}

func testRunConfig() SimulationConfig {
	cfg := DefaultConfig()
	cfg.DurationSeconds = 60
	return cfg
}

func TestSimulatePointCount(t *testing.T) {
	res, err := Simulate(&rampSimulator{id: "demo"}, testRunConfig())
	require.NoError(t, err)

	// t = 0..60 inclusive at 1 s steps.
	assert.Len(t, res.Points, 61)
	assert.Equal(t, 0.0, res.Points[0].Time)
	assert.Equal(t, 60.0, res.Points[60].Time)
}

func TestSimulateRampAndDTCUnion(t *testing.T) {
	res, err := Simulate(&rampSimulator{id: "demo"}, testRunConfig())
	require.NoError(t, err)

	assert.InDelta(t, 51.0, res.Points[1].Values["temp"], 1e-9)
	assert.InDelta(t, 110.0, res.FinalState["temp"], 1e-9)

	// temp crosses 80 mid-run; the union keeps the code even though early
	// steps were clean.
	assert.Equal(t, []string{"T001"}, res.DTCList())
}

func TestSimulateRecordsOnlySensors(t *testing.T) {
	res, err := Simulate(&rampSimulator{id: "demo"}, testRunConfig())
	require.NoError(t, err)

	for _, p := range res.Points {
		_, leaked := p.Values["heat"]
		assert.False(t, leaked, "internal variable recorded at t=%g", p.Time)
	}
}

func TestSimulateDeterministicWithNoise(t *testing.T) {
	cfg := testRunConfig()
	cfg.AddNoise = true
	cfg.NoiseLevel = 0.05
	cfg.Seed = 1234

	a, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.NoError(t, err)
	b, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.NoError(t, err)

	require.Len(t, b.Points, len(a.Points))
	for i := range a.Points {
		assert.Equal(t, a.Points[i].Values, b.Points[i].Values, "step %d diverged for same seed", i)
	}

	cfg.Seed = 99
	c, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Points[1].Values, c.Points[1].Values, "different seeds produced identical noise")
}

func TestSimulateNoiseDoesNotFeedBack(t *testing.T) {
	cfg := testRunConfig()
	cfg.AddNoise = true
	cfg.NoiseLevel = 0.05
	cfg.Seed = 7

	noisy, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.NoError(t, err)

	// Each recorded value deviates from the clean ramp by a single draw,
	// never by an accumulated walk. Sigma here is at most ~5.5, so a 30-unit
	// deviation means the draws compounded.
	for i, p := range noisy.Points {
		clean := 50.0 + float64(i)
		assert.InDelta(t, clean, p.Values["temp"], 30, "step %d drifted off the ramp", i)
	}
}

func TestSimulateNoiseCannotTriggerDTCs(t *testing.T) {
	clean, err := Simulate(&rampSimulator{id: "demo"}, testRunConfig())
	require.NoError(t, err)

	for seed := int64(0); seed < 10; seed++ {
		cfg := testRunConfig()
		cfg.AddNoise = true
		cfg.NoiseLevel = 0.05
		cfg.Seed = seed

		noisy, err := Simulate(&rampSimulator{id: "demo"}, cfg)
		require.NoError(t, err)
		assert.Equal(t, clean.DTCList(), noisy.DTCList(), "seed %d: noise changed the triggered codes", seed)
	}
}

func TestSimulateFailureOnset(t *testing.T) {
	cfg := testRunConfig()
	cfg.FailureID = "pressure_loss"
	cfg.FailureSeverity = 1
	cfg.FailureOnsetTime = 30

	res, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.Points[29].Values["pressure"], "failure applied before onset")
	post := res.Points[31].Values["pressure"]
	assert.True(t, post >= 5 && post <= 35, "post-onset pressure %g outside failure band", post)
	assert.Contains(t, res.DTCList(), "P001")
}

func TestSimulateUnknownFailureRejected(t *testing.T) {
	cfg := testRunConfig()
	cfg.FailureID = "head_gasket_leak"
	_, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "head_gasket_leak")
}

func TestSimulateInvalidConfigRejected(t *testing.T) {
	cfg := testRunConfig()
	cfg.TimeStep = -1
	_, err := Simulate(&rampSimulator{id: "demo"}, cfg)
	assert.Error(t, err)
}

func TestSimulateStepErrorPropagates(t *testing.T) {
	s := &rampSimulator{id: "demo", stepErr: fmt.Errorf("physics blew up")}
	_, err := Simulate(s, testRunConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "physics blew up")
}
