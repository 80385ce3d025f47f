package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDTCRuleMatches(t *testing.T) {
	tests := []struct {
		name  string
		rule  DTCRule
		value float64
		want  bool
	}{
		{"greater fires", DTCRule{Sensor: "t", Op: CmpGreater, Threshold: 115, Code: "X"}, 116, true},
		{"greater at threshold", DTCRule{Sensor: "t", Op: CmpGreater, Threshold: 115, Code: "X"}, 115, false},
		{"less fires", DTCRule{Sensor: "t", Op: CmpLess, Threshold: 70, Code: "X"}, 69.9, true},
		{"less at threshold", DTCRule{Sensor: "t", Op: CmpLess, Threshold: 70, Code: "X"}, 70, false},
		{"equal fires", DTCRule{Sensor: "t", Op: CmpEqual, Threshold: 1, Code: "X"}, 1.0000001, true},
		{"equal misses", DTCRule{Sensor: "t", Op: CmpEqual, Threshold: 1, Code: "X"}, 1.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.value))
		})
	}
}

func TestDTCRuleValidate(t *testing.T) {
	good := DTCRule{Sensor: "coolant_temp", Op: CmpGreater, Threshold: 115, Code: "P0217"}
	assert.NoError(t, good.Validate())

	assert.Error(t, DTCRule{Sensor: "t", Op: ">=", Threshold: 1, Code: "X"}.Validate(), "unknown comparator")
	assert.Error(t, DTCRule{Sensor: "t", Op: CmpGreater, Threshold: 1}.Validate(), "empty code")
	assert.Error(t, DTCRule{Op: CmpGreater, Threshold: 1, Code: "X"}.Validate(), "empty sensor")
	assert.Error(t, DTCRule{Sensor: "t", Op: CmpGreater, Threshold: 1, Code: "X", WarmupSeconds: -1}.Validate(), "negative warmup")
}

func TestEvalDTCRulesWarmupGating(t *testing.T) {
	rules := []DTCRule{
		{Sensor: "coolant_temp", Op: CmpLess, Threshold: 70, Code: "P0128", WarmupSeconds: 300},
		{Sensor: "coolant_temp", Op: CmpGreater, Threshold: 115, Code: "P0217"},
	}
	st := State{Sensors: map[string]float64{"coolant_temp": 50}}

	assert.Empty(t, EvalDTCRules(rules, st, 0), "gated rule fired at t=0")
	assert.Empty(t, EvalDTCRules(rules, st, 300), "gated rule fired inside warm-up window")
	assert.Equal(t, []string{"P0128"}, EvalDTCRules(rules, st, 301))

	st.Sensors["coolant_temp"] = 120
	assert.Equal(t, []string{"P0217"}, EvalDTCRules(rules, st, 10), "ungated rule must fire immediately")
}

func TestEvalDTCRulesMissingSensorSkipped(t *testing.T) {
	rules := []DTCRule{{Sensor: "absent", Op: CmpGreater, Threshold: 0, Code: "X"}}
	st := State{Sensors: map[string]float64{"coolant_temp": 90}}
	assert.Empty(t, EvalDTCRules(rules, st, 100))
}
