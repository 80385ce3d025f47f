package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() StateSchema {
	return StateSchema{
		Sensors:  map[string]float64{"coolant_temp": 90, "flow_rate": 60},
		Internal: map[string]float64{"engine_temp": 95},
	}
}

func TestStateSchemaValidate(t *testing.T) {
	require.NoError(t, testSchema().Validate())

	empty := StateSchema{}
	assert.Error(t, empty.Validate(), "schema without sensors must be rejected")

	clash := StateSchema{
		Sensors:  map[string]float64{"temp": 1},
		Internal: map[string]float64{"temp": 2},
	}
	assert.Error(t, clash.Validate(), "sensor/internal name collision must be rejected")
}

func TestNewStateUsesDefaults(t *testing.T) {
	st := NewState(testSchema())
	assert.Equal(t, 90.0, st.Sensors["coolant_temp"])
	assert.Equal(t, 95.0, st.Internal["engine_temp"])
}

func TestApplyOverrides(t *testing.T) {
	st := NewState(testSchema())
	require.NoError(t, st.ApplyOverrides(map[string]float64{"coolant_temp": 40, "engine_temp": 42}))
	assert.Equal(t, 40.0, st.Sensors["coolant_temp"])
	assert.Equal(t, 42.0, st.Internal["engine_temp"])

	err := st.ApplyOverrides(map[string]float64{"boost_pressure": 1})
	require.Error(t, err, "undeclared override must be rejected")
	assert.Contains(t, err.Error(), "boost_pressure")
}

func TestCloneIsIndependent(t *testing.T) {
	st := NewState(testSchema())
	cl := st.Clone()
	cl.Sensors["coolant_temp"] = 200
	cl.Internal["engine_temp"] = 200

	assert.Equal(t, 90.0, st.Sensors["coolant_temp"], "clone mutation leaked into original")
	assert.Equal(t, 95.0, st.Internal["engine_temp"], "clone mutation leaked into original")
}
